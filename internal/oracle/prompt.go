package oracle

import (
	"encoding/json"
	"strings"
)

// maxPromptChars caps how much document text goes into the user prompt.
const maxPromptChars = 6000

func buildSystemPrompt(certTypes []string) string {
	parts := []string{
		"You are a maritime certificate parser. Return ONLY JSON that matches the provided JSON Schema.",
		"The documents are ship certificates, class certificates, and survey reports.",
		"Extract the full certificate name as printed, the certificate number, and the issuing authority (flag state or classification society).",
		"Dates may appear as DD/MM/YYYY, '7 May 2027', 'May 2027' or ISO form; copy them as printed, do not reformat.",
		"valid_date is the expiry / valid-until date. last_endorsement_date is the most recent annual or intermediate endorsement, if any.",
	}
	if len(certTypes) > 0 {
		parts = append(parts,
			"certificate_type MUST be exactly one of: "+strings.Join(certTypes, ", ")+". If uncertain, use 'Other'.")
	}
	parts = append(parts,
		"Include a 'confidence' number between 0 and 1.",
		"Never output null. If a field is not present, omit it.",
	)
	return strings.Join(parts, " ")
}

func buildUserPrompt(text, filename string) string {
	var b strings.Builder
	if filename != "" {
		b.WriteString("Filename: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	text = strings.TrimSpace(text)
	b.WriteString("\nDocument text (first ~6k chars):\n")
	if len(text) > maxPromptChars {
		b.WriteString(text[:maxPromptChars])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
