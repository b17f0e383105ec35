package domain

// EmailTemplate identifies a notification body template.
type EmailTemplate string

const (
	TemplateUserRegistration EmailTemplate = "userRegistration.html"
	TemplateSupportTicket    EmailTemplate = "supportTicket.html"
)

// EmailNotification is a message handed to the e-mail service.
type EmailNotification struct {
	From         string         `json:"from,omitempty"`
	FromName     string         `json:"fromName,omitempty"`
	To           []string       `json:"to"`
	Subject      string         `json:"subject"`
	Template     EmailTemplate  `json:"template"`
	Params       map[string]any `json:"params,omitempty"`
	CopyToSender bool           `json:"copyToSender"`
}
