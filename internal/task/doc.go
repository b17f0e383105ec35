// Package task runs background work on an in-memory queue drained by a
// fixed pool of workers. Work that is still queued when the process stops
// is lost; callers only use it for fire-and-forget jobs such as e-mail
// delivery.
package task
