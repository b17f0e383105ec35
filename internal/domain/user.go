package domain

import (
	"fmt"
	"strings"
	"time"
)

// SourceInternal tags users registered through the portal itself rather than
// provisioned from an external identity provider.
const SourceInternal = "gravitee"

// Common validation errors
var (
	ErrEmptyUsername = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrInvalidEmail  = fmt.Errorf("%w: invalid email format", ErrValidation)
)

// User is the persisted identity record of a console user.
// Username is the unique key. A non-blank Password (always a hash) means the
// account was registered locally and cannot be registered again.
type User struct {
	Username         string     `json:"username" db:"username"`
	Email            string     `json:"email" db:"email"`
	Firstname        string     `json:"firstname" db:"firstname"`
	Lastname         string     `json:"lastname" db:"lastname"`
	Password         string     `json:"-" db:"password"`
	Source           string     `json:"source" db:"source"`
	SourceID         string     `json:"sourceId" db:"source_id"`
	Picture          string     `json:"picture,omitempty" db:"picture"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
	LastConnectionAt *time.Time `json:"lastConnectionAt,omitempty" db:"last_connection_at"`
}

// Clone returns a copy that does not share the LastConnectionAt pointer, so it
// can serve as the "previous" audit snapshot while the original is mutated.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastConnectionAt != nil {
		t := *u.LastConnectionAt
		c.LastConnectionAt = &t
	}
	return &c
}

// HasPassword reports whether the account was registered locally.
func (u *User) HasPassword() bool {
	return strings.TrimSpace(u.Password) != ""
}

// FirstConnection reports whether the user has never connected.
func (u *User) FirstConnection() bool {
	return u.LastConnectionAt == nil
}

// Validate checks the fields every persisted user must carry.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if u.Email != "" && !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// UserRole is a role attached to a user view.
type UserRole struct {
	Scope       RoleScope           `json:"scope"`
	Name        string              `json:"name"`
	Permissions map[string][]string `json:"permissions,omitempty"`
}

// UserView is the projection of a User returned by the service layer,
// optionally enriched with the user's PORTAL and MANAGEMENT roles.
type UserView struct {
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Firstname        string     `json:"firstname"`
	Lastname         string     `json:"lastname"`
	Password         string     `json:"-"`
	Source           string     `json:"source"`
	SourceID         string     `json:"sourceId"`
	Picture          string     `json:"picture,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	LastConnectionAt *time.Time `json:"lastConnectionAt,omitempty"`
	Roles            []UserRole `json:"roles,omitempty"`
}

// DisplayName is "firstname lastname", used as an e-mail sender name.
func (v *UserView) DisplayName() string {
	return strings.TrimSpace(v.Firstname + " " + v.Lastname)
}

// NewUserView projects a User without roles.
func NewUserView(u *User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		Username:         u.Username,
		Email:            u.Email,
		Firstname:        u.Firstname,
		Lastname:         u.Lastname,
		Password:         u.Password,
		Source:           u.Source,
		SourceID:         u.SourceID,
		Picture:          u.Picture,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
		LastConnectionAt: u.LastConnectionAt,
	}
}

// NewExternalUser pre-creates a user that has no local password yet.
type NewExternalUser struct {
	Username  string `json:"username"`
	Email     string `json:"email" validate:"required,email"`
	Firstname string `json:"firstname" validate:"max=64"`
	Lastname  string `json:"lastname" validate:"max=64"`
	Source    string `json:"source,omitempty"`
	SourceID  string `json:"sourceId,omitempty"`
}

// RegisterUser completes an invited registration: a signed token carrying the
// identity claims, plus the password the user chose.
type RegisterUser struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUser carries the fields a user may change about themselves.
type UpdateUser struct {
	Username string `json:"-"`
	Picture  string `json:"picture"`
}

// validateEmailFormat performs a minimal shape check: something@domain.tld.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
