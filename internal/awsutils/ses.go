package awsutils

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"campaign-transmitter/internal/transmission"
)

const tagValue = "true"

var invalidTagChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

type sesInterface interface {
	SendBulkTemplatedEmail(context.Context, *ses.SendBulkTemplatedEmailInput, ...func(*ses.Options)) (*ses.SendBulkTemplatedEmailOutput, error)
}

type SesConfig struct {
	ConfigurationSet string
}

// SesClient sends transmissions as SES bulk templated emails: the campaign id
// names the SES template and substitution data becomes template data.
type SesClient struct {
	api sesInterface
	cfg SesConfig
}

func NewSesClient(api sesInterface, cfg SesConfig) *SesClient {
	return &SesClient{api: api, cfg: cfg}
}

func NewSesClientFromConfig(awsCfg aws.Config, cfg SesConfig) *SesClient {
	return NewSesClient(ses.NewFromConfig(awsCfg), cfg)
}

func (c *SesClient) Transmit(ctx context.Context, req *transmission.Request) (*transmission.Result, error) {
	input, err := c.buildInput(req)
	if err != nil {
		return nil, err
	}

	out, err := c.api.SendBulkTemplatedEmail(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &transmission.Result{}
	for _, status := range out.Status {
		if status.Status != types.BulkEmailStatusSuccess {
			result.TotalRejectedRecipients++
			continue
		}

		result.TotalAcceptedRecipients++
		if result.ID == "" {
			result.ID = aws.ToString(status.MessageId)
		}
	}

	return result, nil
}

func (c *SesClient) buildInput(req *transmission.Request) (*ses.SendBulkTemplatedEmailInput, error) {
	defaultData, err := templateData(req.SubstitutionData)
	if err != nil {
		return nil, err
	}

	input := &ses.SendBulkTemplatedEmailInput{
		Source:              aws.String(req.Content.From),
		Template:            aws.String(req.Content.CampaignID),
		DefaultTemplateData: defaultData,
		Destinations:        make([]types.BulkEmailDestination, len(req.Recipients)),
	}

	if c.cfg.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(c.cfg.ConfigurationSet)
	}

	if req.Metadata != nil {
		input.DefaultTags = messageTags(req.Metadata.Tags)
	}

	for i, r := range req.Recipients {
		data, err := templateData(r.SubstitutionData)
		if err != nil {
			return nil, err
		}

		input.Destinations[i] = types.BulkEmailDestination{
			Destination:             &types.Destination{ToAddresses: []string{r.Address.Email}},
			ReplacementTemplateData: data,
			ReplacementTags:         messageTags(r.Tags),
		}
	}

	return input, nil
}

func templateData(data map[string]any) (*string, error) {
	if data == nil {
		data = map[string]any{}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template data: %w", err)
	}

	return aws.String(string(encoded)), nil
}

// messageTags turns plain tags into SES message tags, replacing characters
// SES rejects in tag names.
func messageTags(tags []string) []types.MessageTag {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(tags))
	messageTags := make([]types.MessageTag, 0, len(tags))

	for _, tag := range tags {
		name := invalidTagChars.ReplaceAllString(tag, "_")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		messageTags = append(messageTags, types.MessageTag{Name: aws.String(name), Value: aws.String(tagValue)})
	}

	return messageTags
}
