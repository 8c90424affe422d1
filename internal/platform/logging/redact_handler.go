package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SecretTag marks struct fields that must never be logged:
//
//	SigningKey string `masq:"secret"`
const SecretTag = "secret"

// SensitiveHeaders is the set of lowercase HTTP header names whose values
// carry credentials. The HTTP middleware redacts the same set when it logs
// request headers.
var SensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

var (
	// bearerPattern matches "Bearer <token>" anywhere in a value.
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

	// jwtPattern matches a bare compact JWT. Ten characters per segment
	// keeps version strings and dotted ids from matching.
	jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)

	// credentialURLPattern matches URLs with a password in the userinfo,
	// such as redis://:pass@host:6379/0.
	credentialURLPattern = regexp.MustCompile(`[a-z][a-z0-9+.\-]*://[^:@/\s]*:[^@/\s]+@`)
)

// newRedactAttr returns the masq ReplaceAttr used by every handler New
// builds. Fields are redacted by name, by prefix, by struct tag and, for
// values that slip past those, by pattern.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveHeaders)+9)

	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldName("signing_key"),

		masq.WithFieldPrefix("secret_"),
		masq.WithFieldPrefix("signing_"),

		masq.WithTag(SecretTag),

		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(credentialURLPattern),
	)

	return masq.New(opts...)
}
