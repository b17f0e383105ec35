package domain

import (
	"slices"
	"time"
)

// GroupEvent names a lifecycle event a group can be attached to automatically.
type GroupEvent string

const (
	GroupEventAPICreate         GroupEvent = "API_CREATE"
	GroupEventApplicationCreate GroupEvent = "APPLICATION_CREATE"
)

// Group is a set of users sharing access to APIs and applications.
type Group struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	EventRules []GroupEvent `json:"eventRules,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// AppliesOn reports whether the group is attached automatically on event.
func (g *Group) AppliesOn(event GroupEvent) bool {
	return slices.Contains(g.EventRules, event)
}
