package transmission

import (
	"encoding/base64"
	"fmt"

	"github.com/h2non/filetype"

	"campaign-transmitter/internal/campaign"
)

// MaxRecipientTags is the number of tags the provider accepts per recipient.
const MaxRecipientTags = 10

const defaultImageMime = "application/octet-stream"

// Build maps a campaign onto a transmission request. The campaign is left
// untouched and every tag list in the request is a fresh copy.
func Build(cfg Config, c *campaign.Campaign) *Request {
	provider := c.Provider
	if provider == nil {
		provider = &campaign.Provider{}
	}

	tags := resolveTags(c, provider)

	req := &Request{
		Content: Content{
			From:         formatFrom(c),
			CampaignID:   resolveCampaignID(cfg, c),
			Subject:      c.Subject,
			HTML:         c.HTML,
			InlineImages: formatInlineImages(c.Images),
		},
		SubstitutionData: mergeData(provider, campaign.WildcardMerge),
		Recipients:       formatRecipients(c.To, tags, provider),
		NumRcptErrors:    cfg.NumRcptErrors,
	}

	if cfg.AlwaysSetMetadata || len(provider.Tags) > 0 {
		req.Metadata = &Metadata{Tags: append([]string(nil), tags...)}
	}

	return req
}

func formatFrom(c *campaign.Campaign) string {
	if name := c.SenderName(); name != "" {
		return fmt.Sprintf("%s <%s>", name, c.From)
	}
	return c.From
}

func resolveCampaignID(cfg Config, c *campaign.Campaign) string {
	if cfg.Campaign != "" {
		return cfg.Campaign
	}
	return c.Template
}

func resolveTags(c *campaign.Campaign, provider *campaign.Provider) []string {
	if len(provider.Tags) > 0 {
		return provider.Tags
	}
	return []string{c.Template}
}

func mergeData(provider *campaign.Provider, key string) map[string]any {
	if data, ok := provider.Merge[key]; ok && data != nil {
		return data
	}
	return map[string]any{}
}

func formatRecipients(to campaign.AddressList, tags []string, provider *campaign.Provider) []Recipient {
	n := min(len(tags), MaxRecipientTags)

	recipients := make([]Recipient, 0, len(to))
	for _, address := range to {
		recipients = append(recipients, Recipient{
			Address:          Address{Email: address},
			Tags:             append([]string(nil), tags[:n]...),
			SubstitutionData: mergeData(provider, address),
		})
	}

	return recipients
}

func formatInlineImages(images []campaign.Image) []InlineImage {
	if len(images) == 0 {
		return nil
	}

	inline := make([]InlineImage, len(images))
	for i, image := range images {
		inline[i] = InlineImage{
			Type: image.Mime,
			Name: image.Name,
			Data: image.Data,
		}
		if inline[i].Type == "" {
			inline[i].Type = detectImageMime(image.Data)
		}
	}

	return inline
}

func detectImageMime(data string) string {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return defaultImageMime
	}

	kind, _ := filetype.Match(raw)
	if kind == filetype.Unknown {
		return defaultImageMime
	}

	return kind.MIME.Value
}
