package service

import "github.com/phrazzld/console-api/internal/config"

// UserSettings is the start-up snapshot of the user lifecycle switches.
type UserSettings struct {
	// DefaultApplication creates an application on a user's first connection.
	DefaultApplication bool

	// RegistrationEnabled gates Register and CompleteRegistration.
	RegistrationEnabled bool

	// PortalURL is the base of registration confirmation links.
	PortalURL string
}

// TicketSettings is the start-up snapshot of the support switches.
type TicketSettings struct {
	SupportEnabled bool
}

// NewUserSettings extracts the user settings from cfg.
func NewUserSettings(cfg *config.Config) UserSettings {
	return UserSettings{
		DefaultApplication:  cfg.User.Login.DefaultApplication,
		RegistrationEnabled: cfg.User.Creation.Enabled,
		PortalURL:           cfg.Portal.URL,
	}
}

// NewTicketSettings extracts the ticket settings from cfg.
func NewTicketSettings(cfg *config.Config) TicketSettings {
	return TicketSettings{SupportEnabled: cfg.Support.Enabled}
}
