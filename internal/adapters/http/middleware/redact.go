package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders returns headers as log attributes sorted by name, with
// credential values replaced. An Authorization value keeps its scheme so
// that "Bearer" and "Basic" remain distinguishable in logs.
func RedactHeaders(headers http.Header) []slog.Attr {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		value := strings.Join(headers[name], ",")
		if logging.SensitiveHeaders[strings.ToLower(name)] {
			value = redactValue(name, value)
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return attrs
}

func redactValue(name, value string) string {
	if strings.EqualFold(name, "authorization") {
		if scheme, _, ok := strings.Cut(value, " "); ok {
			return scheme + " " + redacted
		}
	}
	return redacted
}
