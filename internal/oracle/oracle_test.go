package oracle

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestStripJSONFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "Here is the JSON:\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StripJSONFences(tc.in)
			if got != tc.want {
				t.Fatalf("StripJSONFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeAndSanitizeJSONRenamesSynonyms(t *testing.T) {
	raw := `{
		"name": "International Oil Pollution Prevention Certificate",
		"expiry_date": "2027-05-07",
		"issuer": "Panama Maritime Authority",
		"certificate_type": "Full Term",
		"confidence": 0.92
	}`
	out, _, err := NormalizeAndSanitizeJSON([]byte(raw), slog.Default())
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal sanitized: %v", err)
	}
	if m["certificate_name"] != "International Oil Pollution Prevention Certificate" {
		t.Errorf("certificate_name missing after rename: %v", m)
	}
	if m["valid_date"] != "2027-05-07" {
		t.Errorf("valid_date missing after rename: %v", m)
	}
	if m["issuing_authority"] != "Panama Maritime Authority" {
		t.Errorf("issuing_authority missing after rename: %v", m)
	}
	if _, ok := m["name"]; ok {
		t.Errorf("synonym key should be dropped after rename")
	}
}

func TestNormalizeAndSanitizeJSONDropsUnknownAndEmpty(t *testing.T) {
	raw := `{
		"certificate_name": "Safety Management Certificate",
		"valid_date": "",
		"ship_flag": "Panama",
		"confidence": 1.7
	}`
	out, dropped, err := NormalizeAndSanitizeJSON([]byte(raw), slog.Default())
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if len(dropped) == 0 {
		t.Errorf("expected dropped keys to be reported")
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal sanitized: %v", err)
	}
	if _, ok := m["valid_date"]; ok {
		t.Errorf("empty valid_date should be dropped")
	}
	if _, ok := m["ship_flag"]; ok {
		t.Errorf("unknown key ship_flag should be dropped")
	}
	if _, ok := m["confidence"]; ok {
		t.Errorf("out-of-range confidence should be dropped")
	}
	if m["certificate_name"] != "Safety Management Certificate" {
		t.Errorf("certificate_name should survive: %v", m)
	}
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildCertificateJSONSchema([]string{"Full Term", "Interim"})

	valid := []byte(`{"certificate_name":"Certificate of Registry","certificate_type":"Full Term"}`)
	if err := ValidateJSONAgainstSchema(schema, valid); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	missingName := []byte(`{"certificate_type":"Full Term"}`)
	if err := ValidateJSONAgainstSchema(schema, missingName); err == nil {
		t.Fatalf("payload missing certificate_name should be rejected")
	}

	badType := []byte(`{"certificate_name":"x","certificate_type":"Lifetime"}`)
	if err := ValidateJSONAgainstSchema(schema, badType); err == nil {
		t.Fatalf("payload with non-enum certificate_type should be rejected")
	}
}

func TestFallbackFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		wantName string
	}{
		{"IOPP_cert_2024.pdf", "International Oil Pollution Prevention Certificate"},
		{"mv-stella-load_line.PDF", "International Load Line Certificate"},
		{"safety management certificate.pdf", "Safety Management Certificate"},
		{"scan0001.jpg", "scan0001"},
	}
	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			got := FallbackFromFilename(tc.filename)
			if got.CertificateName != tc.wantName {
				t.Errorf("CertificateName = %q, want %q", got.CertificateName, tc.wantName)
			}
			if !got.ExtractionError {
				t.Errorf("fallback result must flag ExtractionError")
			}
			if got.Confidence <= 0 || got.Confidence > 0.5 {
				t.Errorf("fallback confidence should be low, got %v", got.Confidence)
			}
		})
	}
}

func TestFallbackNeverEmptyName(t *testing.T) {
	got := FallbackFromFilename("...pdf")
	if strings.TrimSpace(got.CertificateName) == "" {
		t.Fatalf("fallback must always produce a non-empty certificate name")
	}
}
