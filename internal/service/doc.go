// Package service contains the console use cases: user lifecycle and
// registration, application lifecycle, support tickets, and the smaller
// collaborator services they are composed from (roles, memberships, groups,
// subscriptions, API keys, audit, metadata).
//
// Services receive their collaborators through constructor injection and
// depend only on the store ports, never on a concrete database. Multi-step
// flows are not transactional across services; each store call commits on
// its own.
//
// Errors:
//   - Expected conditions are sentinel kinds (ErrNotFound, ErrConflict,
//     ErrPreconditionFailed, ErrDataIntegrity) refined by specific errors such
//     as ErrUserNotFound, all checkable with errors.Is.
//   - Store and unexpected failures are wrapped in *TechnicalError.
package service
