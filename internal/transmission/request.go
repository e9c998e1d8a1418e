package transmission

// Request is the provider transmission built for a single send.
type Request struct {
	Content          Content
	SubstitutionData map[string]any
	Metadata         *Metadata
	Recipients       []Recipient
	NumRcptErrors    int
}

type Content struct {
	From         string
	CampaignID   string
	Subject      string
	HTML         string
	InlineImages []InlineImage
}

type InlineImage struct {
	Type string
	Name string
	Data string
}

type Metadata struct {
	Tags []string
}

type Address struct {
	Email string
}

type Recipient struct {
	Address          Address
	Tags             []string
	SubstitutionData map[string]any
}

// Result is what the transport reports for an accepted transmission.
type Result struct {
	ID                      string `json:"id"`
	TotalAcceptedRecipients int    `json:"total_accepted_recipients"`
	TotalRejectedRecipients int    `json:"total_rejected_recipients"`
}
