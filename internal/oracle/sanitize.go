package oracle

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// StripJSONFences removes provider response wrapping (```json ... ```
// code fences) so the body can be parsed as plain JSON.
func StripJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		// Some replies prefix the fence with prose.
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[i:]
		} else {
			return s
		}
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NormalizeAndSanitizeJSON is a total (never-throwing beyond decode)
// cleanup over the oracle's duck-typed reply:
//   - renames known key synonyms to our schema
//   - drops null/empty optionals
//   - coerces stray numbers to strings for string-typed fields
//   - removes unknown keys (additionalProperties friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms the oracle tends to emit
	renamed("name", "certificate_name")
	renamed("cert_name", "certificate_name")
	renamed("number", "certificate_number")
	renamed("cert_number", "certificate_number")
	renamed("cert_type", "certificate_type")
	renamed("expiry_date", "valid_date")
	renamed("valid_until", "valid_date")
	renamed("expiration_date", "valid_date")
	renamed("issued_date", "issue_date")
	renamed("last_endorse", "last_endorsement_date")
	renamed("last_endorsement", "last_endorsement_date")
	renamed("endorsement_date", "last_endorsement_date")
	renamed("issuer", "issuing_authority")
	renamed("authority", "issuing_authority")

	// 2) coerce string-typed fields; drop null/empty
	stringFields := []string{
		"certificate_name", "certificate_type", "certificate_number",
		"issue_date", "valid_date", "last_endorsement_date", "issuing_authority",
	}
	for _, k := range stringFields {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case float64:
			m[k] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		default:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		}
	}

	// 3) confidence must be a number in 0..1
	if v, ok := m["confidence"]; ok {
		switch t := v.(type) {
		case float64:
			if t < 0 || t > 1 {
				delete(m, "confidence")
				dropped = append(dropped, "confidence(range)")
			}
		case string:
			delete(m, "confidence")
			dropped = append(dropped, "confidence(type)")
		case nil:
			delete(m, "confidence")
			dropped = append(dropped, "confidence(null)")
		}
	}

	// 4) remove unknown keys
	allowed := map[string]struct{}{
		"certificate_name": {}, "certificate_type": {}, "certificate_number": {},
		"issue_date": {}, "valid_date": {}, "last_endorsement_date": {},
		"issuing_authority": {}, "confidence": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("oracle.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
