package domain

// Metadata keys read by the support flow.
const (
	MetadataEmailSupportKey = "email-support"

	// DefaultEmailSupport is the placeholder shipped with a fresh install.
	// A ticket addressed to it would go nowhere.
	DefaultEmailSupport = "support@change.me"
)

// NewTicket is a support request raised by a portal user.
type NewTicket struct {
	API          string `json:"api,omitempty"`
	Application  string `json:"application,omitempty"`
	Subject      string `json:"subject" validate:"required,max=256"`
	Content      string `json:"content" validate:"required"`
	CopyToSender bool   `json:"copyToSender"`
}

// APIModel is the template-facing view of an API.
type APIModel struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
