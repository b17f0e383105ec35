package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ApplicationStatus is the lifecycle state of an application.
// ACTIVE -> ARCHIVED is the only transition; there is no way back.
type ApplicationStatus string

const (
	ApplicationActive   ApplicationStatus = "ACTIVE"
	ApplicationArchived ApplicationStatus = "ARCHIVED"
)

// Default application created on a user's first connection.
const (
	DefaultApplicationName        = "Default application"
	DefaultApplicationDescription = "My default application"
)

var (
	ErrEmptyApplicationName        = fmt.Errorf("%w: application name cannot be empty", ErrValidation)
	ErrEmptyApplicationDescription = fmt.Errorf("%w: application description cannot be empty", ErrValidation)
	ErrInvalidApplicationStatus    = fmt.Errorf("%w: invalid application status", ErrValidation)
)

// Application is the persisted record of a consumer application.
type Application struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Type        string            `json:"type,omitempty"`
	Status      ApplicationStatus `json:"status"`
	Groups      []string          `json:"groups,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Clone returns a deep copy, used as the "previous" audit snapshot.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	c.Groups = slices.Clone(a.Groups)
	return &c
}

// IsActive reports whether the application has not been archived.
func (a *Application) IsActive() bool {
	return a.Status == ApplicationActive
}

// AddGroups merges ids into the group set, keeping it sorted and free of duplicates.
func (a *Application) AddGroups(ids ...string) {
	a.Groups = MergeGroups(a.Groups, ids)
}

// Validate checks the fields every stored application must carry.
func (a *Application) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyApplicationName
	}
	if strings.TrimSpace(a.Description) == "" {
		return ErrEmptyApplicationDescription
	}
	switch a.Status {
	case ApplicationActive, ApplicationArchived:
		return nil
	default:
		return ErrInvalidApplicationStatus
	}
}

// MergeGroups returns the sorted union of two group id lists.
func MergeGroups(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}

// PrimaryOwner is the owner summary embedded in an application view.
type PrimaryOwner struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// ApplicationView is an application enriched with its primary owner.
type ApplicationView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Type         string        `json:"type,omitempty"`
	Status       string        `json:"status"`
	Groups       []string      `json:"groups,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	PrimaryOwner *PrimaryOwner `json:"owner,omitempty"`
}

// NewApplicationView projects an application and, when known, its owner.
func NewApplicationView(a *Application, owner *UserView) *ApplicationView {
	v := &ApplicationView{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Type:        a.Type,
		Status:      string(a.Status),
		Groups:      slices.Clone(a.Groups),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if owner != nil {
		v.PrimaryOwner = &PrimaryOwner{
			Username:  owner.Username,
			Email:     owner.Email,
			Firstname: owner.Firstname,
			Lastname:  owner.Lastname,
		}
	}
	return v
}

// NewApplication is the creation request for an application.
type NewApplication struct {
	Name        string   `json:"name" validate:"required,max=128"`
	Description string   `json:"description" validate:"required"`
	Type        string   `json:"type,omitempty"`
	Groups      []string `json:"groups,omitempty"`
}

// UpdateApplication replaces the mutable fields of an application.
type UpdateApplication struct {
	Name        string   `json:"name" validate:"required,max=128"`
	Description string   `json:"description" validate:"required"`
	Type        string   `json:"type,omitempty"`
	Groups      []string `json:"groups,omitempty"`
}

// ToApplication builds an unsaved application with trimmed fields.
func (n NewApplication) ToApplication() *Application {
	return &Application{
		Name:        strings.TrimSpace(n.Name),
		Description: strings.TrimSpace(n.Description),
		Type:        strings.TrimSpace(n.Type),
		Groups:      MergeGroups(n.Groups, nil),
	}
}

// ToApplication builds the replacement record with trimmed fields.
func (u UpdateApplication) ToApplication() *Application {
	return NewApplication(u).ToApplication()
}
