//go:build unit

package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScalarRecipient(t *testing.T) {
	c, err := Decode([]byte(`{"to":"r@x.com","from":"w@x.com","_template":"tpl"}`))
	require.NoError(t, err)

	assert.Equal(t, AddressList{"r@x.com"}, c.To)
	assert.Nil(t, c.Provider)
	assert.Equal(t, "", c.SenderName())
}

func TestDecodeRecipientArray(t *testing.T) {
	c, err := Decode([]byte(`{"to":["a@x.com","b@x.com","c@x.com"]}`))
	require.NoError(t, err)

	assert.Equal(t, AddressList{"a@x.com", "b@x.com", "c@x.com"}, c.To)
}

func TestDecodeInvalidRecipient(t *testing.T) {
	_, err := Decode([]byte(`{"to":42}`))
	assert.EqualError(t, err, "failed to unmarshal campaign: campaign: \"to\" must be a string or an array of strings")
}

func TestLoad(t *testing.T) {
	c, err := Load("testdata/campaign.json")
	require.NoError(t, err)

	assert.Equal(t, AddressList{"walter@example.com", "jesse@example.com"}, c.To)
	assert.Equal(t, "welcome", c.Template)
	assert.Equal(t, "Walter White", c.SenderName())
	require.NotNil(t, c.Provider)
	assert.Equal(t, []string{"onboarding", "chemistry"}, c.Provider.Tags)
	assert.Equal(t, map[string]any{"company": "Gray Matter"}, c.Provider.Merge[WildcardMerge])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.json")
	assert.EqualError(t, err, "failed to read campaign file testdata/missing.json: open testdata/missing.json: no such file or directory")
}

func TestDecodeNullRecipient(t *testing.T) {
	c, err := Decode([]byte(`{"to":null,"_template":"tpl"}`))
	require.NoError(t, err)

	assert.Empty(t, c.To)
}
