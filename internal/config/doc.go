// Package config loads and validates the process configuration.
//
// Values come from an optional config.yaml, then environment variables
// prefixed with CONSOLE_ (dots become underscores), with a local .env file
// preloaded into the environment.
package config
