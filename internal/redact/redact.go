// Package redact scrubs credentials and personal data from error text before
// it is logged. Registration tokens, session tokens, SMTP and database
// credentials and user e-mail addresses all travel through error messages in
// this service.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for redacted values.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HashPlaceholder       = "[REDACTED_HASH]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; JWTs go first so that "token=eyJ..." keeps the more
// specific placeholder.
var rules = []rule{
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		JWTPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|smtps?)://[^@\s/]+@`),
		"${1}://" + CredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		HashPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{8,}`),
		"Bearer " + KeyPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)['"]?[^'"&\s]{3,}['"]?`),
		"${1}${2}" + CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(secret|api[_-]?key|token)(\s*[=:]\s*)['"]?[A-Za-z0-9._~+/-]{8,}['"]?`),
		"${1}${2}" + KeyPlaceholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		EmailPlaceholder,
	},
	{
		regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\w,*().]+\b(FROM|INTO|SET)\b[\s\w,*()='".]*`,
		),
		SQLPlaceholder,
	},
}

// String redacts sensitive values in s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts err's message. A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Attr is the "error" log attribute carrying the redacted message.
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
