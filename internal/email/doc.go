// Package email renders notification templates and delivers them, either
// synchronously or through the background task queue.
//
// Delivery goes through a Sender. SMTPSender talks to a relay; LogSender only
// logs, and is used when e-mail is disabled in configuration.
package email
