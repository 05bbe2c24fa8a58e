package abbrev

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManualAbbreviationPassthrough(t *testing.T) {
	r := NewRegistry()
	for _, s := range []string{"PMA", "DNV", "IOPP", "SMC", "IAPPC"} {
		if got := r.NormalizeAuthority(s); got != s {
			t.Errorf("NormalizeAuthority(%q) = %q, want passthrough", s, got)
		}
		if got := r.CertificateAbbreviation(s); got != s {
			t.Errorf("CertificateAbbreviation(%q) = %q, want passthrough", s, got)
		}
	}
	for _, s := range []string{"PM", "ABCDEF", "pma", "P.M.A", "PMA1"} {
		if IsManualAbbreviation(s) {
			t.Errorf("IsManualAbbreviation(%q) = true, want false", s)
		}
	}
}

func TestNormalizeAuthoritySubstringLengthGuard(t *testing.T) {
	r := NewRegistry()

	// Input shorter than the variant must not over-match.
	if got := r.NormalizeAuthority("Panama"); got != "Panama" {
		t.Errorf("NormalizeAuthority(Panama) = %q, want input unchanged", got)
	}

	// Input strictly longer and containing the variant must match.
	if got := r.NormalizeAuthority("Republic of Panama Maritime Authority"); got != "PMA" {
		t.Errorf("NormalizeAuthority(long form) = %q, want PMA", got)
	}

	// Exact variant match.
	if got := r.NormalizeAuthority("Panama Maritime Authority"); got != "PMA" {
		t.Errorf("NormalizeAuthority(exact) = %q, want PMA", got)
	}

	// Case-insensitive.
	if got := r.NormalizeAuthority("panama maritime authority"); got != "PMA" {
		t.Errorf("NormalizeAuthority(lowercase) = %q, want PMA", got)
	}

	// Unknown authorities pass through.
	if got := r.NormalizeAuthority("Ministry of Transport of Atlantis"); got != "Ministry of Transport of Atlantis" {
		t.Errorf("NormalizeAuthority(unknown) = %q, want input unchanged", got)
	}
}

func TestCertificateAbbreviation(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		name string
		want string
	}{
		// Trailing C from the literal word "Certificate" is dropped.
		{"International Air Pollution Prevention Certificate", "IAPP"},
		{"Safety Management Certificate", "SM"},
		// Stop words are skipped; leading "Certificate" keeps its initial.
		{"Certificate of Class", "CC"},
		{"International Certificate of Fitness for the Carriage of Liquefied Gases", "ICFCLG"},
		// Noise phrases are stripped before tokenizing.
		{"International Oil Pollution Prevention Statement of Compliance", "IOPP"},
		// Exact-phrase override.
		{"Document of Compliance", "DOC"},
		{"document of compliance", "DOC"},
	}
	for _, tc := range cases {
		if got := r.CertificateAbbreviation(tc.name); got != tc.want {
			t.Errorf("CertificateAbbreviation(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRegisterRuntimeMappings(t *testing.T) {
	r := NewRegistry()

	r.RegisterAuthority(AuthorityEntry{
		Name:         "Atlantis Ship Registry",
		Abbreviation: "ASR",
		Variants:     []string{"Atlantis Ship Registry"},
	})
	if got := r.NormalizeAuthority("The Atlantis Ship Registry Office"); got != "ASR" {
		t.Errorf("runtime authority = %q, want ASR", got)
	}

	r.RegisterAbbreviation("Cargo Ship Safety Radio Certificate", "CSSR")
	if got := r.CertificateAbbreviation("Cargo Ship Safety Radio Certificate"); got != "CSSR" {
		t.Errorf("runtime abbreviation override = %q, want CSSR", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	yaml := `
authorities:
  - name: Hellenic Register of Shipping
    abbreviation: HRS
    variants: ["Hellenic Register of Shipping"]
abbreviations:
  "Minimum Safe Manning Document": "MSMD"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := r.NormalizeAuthority("Hellenic Register of Shipping"); got != "HRS" {
		t.Errorf("loaded authority = %q, want HRS", got)
	}
	if got := r.CertificateAbbreviation("Minimum Safe Manning Document"); got != "MSMD" {
		t.Errorf("loaded abbreviation = %q, want MSMD", got)
	}

	if err := r.LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadFile(missing) expected error")
	}
}
