// Package api handles incoming HTTP requests, request validation and response
// formatting for the console. Handlers translate HTTP concerns into calls on
// the user, application and ticket services and map service error kinds to
// status codes.
package api
