// Package domain contains the core business entities of the console: users,
// applications, memberships, roles, groups, subscriptions, API keys, audit
// entries and notifications. It is independent of any storage or delivery
// mechanism.
package domain
