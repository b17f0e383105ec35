package domain

import "time"

// SubscriptionStatus is the state of an application's subscription to a plan.
type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "PENDING"
	SubscriptionAccepted SubscriptionStatus = "ACCEPTED"
	SubscriptionRejected SubscriptionStatus = "REJECTED"
	SubscriptionClosed   SubscriptionStatus = "CLOSED"
)

// Subscription links an application to an API plan.
type Subscription struct {
	ID          string             `json:"id" db:"id"`
	API         string             `json:"api" db:"api"`
	Plan        string             `json:"plan" db:"plan"`
	Application string             `json:"application" db:"application"`
	Status      SubscriptionStatus `json:"status" db:"status"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" db:"updated_at"`
	ClosedAt    *time.Time         `json:"closedAt,omitempty" db:"closed_at"`
}

// Closable reports whether the subscription can move to CLOSED.
// Pending, rejected and already closed subscriptions cannot.
func (s *Subscription) Closable() bool {
	return s.Status == SubscriptionAccepted
}

// APIKey is a credential issued for a subscription.
type APIKey struct {
	Key          string     `json:"key" db:"key"`
	Subscription string     `json:"subscription" db:"subscription"`
	Application  string     `json:"application" db:"application"`
	Plan         string     `json:"plan" db:"plan"`
	Revoked      bool       `json:"revoked" db:"revoked"`
	RevokedAt    *time.Time `json:"revokedAt,omitempty" db:"revoked_at"`
	ExpireAt     *time.Time `json:"expireAt,omitempty" db:"expire_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
