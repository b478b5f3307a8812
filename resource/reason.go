// file: resource/reason.go
package resource

import (
	"errors"
	"fmt"
	"strings"
)

// ServerMessager is implemented by errors that carry a message supplied by
// the remote backend.
type ServerMessager interface {
	ServerMessage() string
}

// Reason coerces any failure value into one display string.
// Preference order: server-provided message, exception message, fallback.
func Reason(v any, fallback string) string {
	switch r := v.(type) {
	case nil:
		return fallback
	case string:
		return firstNonEmpty(r, fallback)
	case error:
		var sm ServerMessager
		if errors.As(r, &sm) {
			if msg := strings.TrimSpace(sm.ServerMessage()); msg != "" {
				return msg
			}
		}
		return firstNonEmpty(r.Error(), fallback)
	case map[string]any:
		for _, key := range []string{"message", "error"} {
			if s, ok := r[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return fallback
	case fmt.Stringer:
		return firstNonEmpty(r.String(), fallback)
	default:
		return fallback
	}
}

func firstNonEmpty(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
