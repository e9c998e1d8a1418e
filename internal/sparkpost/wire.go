package sparkpost

import "campaign-transmitter/internal/transmission"

type wireTransmission struct {
	CampaignID       string          `json:"campaign_id,omitempty"`
	Content          wireContent     `json:"content"`
	SubstitutionData map[string]any  `json:"substitution_data"`
	Metadata         *wireMetadata   `json:"metadata,omitempty"`
	Recipients       []wireRecipient `json:"recipients"`
}

type wireContent struct {
	From         string            `json:"from"`
	Subject      string            `json:"subject"`
	HTML         string            `json:"html"`
	InlineImages []wireInlineImage `json:"inline_images,omitempty"`
}

type wireInlineImage struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Data string `json:"data"`
}

type wireMetadata struct {
	Tags []string `json:"tags"`
}

type wireAddress struct {
	Email string `json:"email"`
}

type wireRecipient struct {
	Address          wireAddress    `json:"address"`
	Tags             []string       `json:"tags"`
	SubstitutionData map[string]any `json:"substitution_data"`
}

type wireResponse struct {
	Results transmission.Result `json:"results"`
}

// toWire lifts the campaign id out of the content, where the API expects it
// at the top level.
func toWire(req *transmission.Request) wireTransmission {
	w := wireTransmission{
		CampaignID: req.Content.CampaignID,
		Content: wireContent{
			From:    req.Content.From,
			Subject: req.Content.Subject,
			HTML:    req.Content.HTML,
		},
		SubstitutionData: req.SubstitutionData,
		Recipients:       make([]wireRecipient, len(req.Recipients)),
	}

	for _, image := range req.Content.InlineImages {
		w.Content.InlineImages = append(w.Content.InlineImages, wireInlineImage(image))
	}

	if req.Metadata != nil {
		w.Metadata = &wireMetadata{Tags: req.Metadata.Tags}
	}

	for i, r := range req.Recipients {
		w.Recipients[i] = wireRecipient{
			Address:          wireAddress{Email: r.Address.Email},
			Tags:             r.Tags,
			SubstitutionData: r.SubstitutionData,
		}
	}

	return w
}
