package oracle

// BuildCertificateJSONSchema returns a JSON-Schema (draft 2020-12
// subset) as a generic map. We pass it to the oracle as an output
// constraint and also use it locally to validate the reply.
func BuildCertificateJSONSchema(certTypes []string) map[string]any {
	props := map[string]any{
		"certificate_name":      map[string]any{"type": "string", "minLength": 1},
		"certificate_type":      map[string]any{"type": "string"},
		"certificate_number":    map[string]any{"type": "string"},
		"issue_date":            map[string]any{"type": "string"},
		"valid_date":            map[string]any{"type": "string"},
		"last_endorsement_date": map[string]any{"type": "string"},
		"issuing_authority":     map[string]any{"type": "string"},
		"confidence":            map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}

	// Constrain the type when a taxonomy is provided.
	if len(certTypes) > 0 {
		props["certificate_type"] = map[string]any{
			"type": "string",
			"enum": certTypes,
		}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"certificate_name"},
	}
}
