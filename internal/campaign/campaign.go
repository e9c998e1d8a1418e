package campaign

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// WildcardMerge is the merge key whose data applies to the whole transmission.
const WildcardMerge = "*"

type Image struct {
	Mime string `json:"mime"`
	Data string `json:"data"`
	Name string `json:"name"`
}

type Social struct {
	Name string `json:"name"`
}

type Provider struct {
	Merge map[string]map[string]any `json:"merge"`
	Tags  []string                  `json:"tags"`
}

// Campaign is the provider agnostic description of a single send.
type Campaign struct {
	To       AddressList `json:"to"`
	From     string      `json:"from"`
	Template string      `json:"_template"`
	Subject  string      `json:"subject"`
	HTML     string      `json:"html"`
	Images   []Image     `json:"images"`
	Social   *Social     `json:"social,omitempty"`
	Provider *Provider   `json:"provider,omitempty"`
}

// SenderName returns the social display name, or "" when none is set.
func (c *Campaign) SenderName() string {
	if c.Social == nil {
		return ""
	}
	return c.Social.Name
}

// AddressList holds the recipients of a campaign. In JSON it is either a
// single address or an array of addresses.
type AddressList []string

func (l *AddressList) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = AddressList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("campaign: \"to\" must be a string or an array of strings")
	}

	*l = many
	return nil
}

func Load(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign file %s: %w", path, err)
	}

	return Decode(data)
}

func Decode(data []byte) (*Campaign, error) {
	var c Campaign
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign: %w", err)
	}

	return &c, nil
}
