package logging

import (
	"fmt"
	"regexp"
	"strings"
)

const redactedSecret = "[REDACTED_SECRET]"

var (
	kvSecretRe = regexp.MustCompile(`(?i)((?:api|token|secret|key|password)[-_ ]*(?:id|key|token)?\s*[:=]\s*)(['"]?)([A-Za-z0-9+/=_\-]{8,})(['"]?)`)
	bearerRe   = regexp.MustCompile(`(?i)\b(bearer|token)\s+([A-Za-z0-9._\-]{10,})`)
)

// sensitiveKeys name metadata entries whose values are never written.
var sensitiveKeys = []string{"password", "secret", "token", "api_key", "authorization"}

// redactString masks credentials embedded in free text.
func redactString(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	masked := kvSecretRe.ReplaceAllString(in, `$1$2`+redactedSecret+`$4`)
	return bearerRe.ReplaceAllString(masked, `$1 `+redactedSecret)
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func redactValue(value any) any {
	switch v := value.(type) {
	case string:
		return redactString(v)
	case fmt.Stringer:
		return redactString(v.String())
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = redactString(s)
		}
		return out
	case map[string]any:
		return redactMetadata(v)
	default:
		return value
	}
}

// redactMetadata returns a copy of in with sensitive keys masked and string
// values scrubbed.
func redactMetadata(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if isSensitiveKey(k) {
			out[k] = redactedSecret
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}
