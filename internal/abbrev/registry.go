// Package abbrev maps free-text certificate names and issuing-authority
// names to canonical short codes.
package abbrev

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

// reManual matches strings that are already an abbreviation: 3-5
// uppercase letters, no separators. Such input is passed through
// unchanged by every normalizer in this package.
var reManual = regexp.MustCompile(`^[A-Z]{3,5}$`)

// IsManualAbbreviation reports whether s is treated as an
// already-correct abbreviation.
func IsManualAbbreviation(s string) bool {
	return reManual.MatchString(s)
}

// AuthorityEntry is one canonical issuing authority with its known
// free-text variants.
type AuthorityEntry struct {
	Name         string   `yaml:"name"`
	Abbreviation string   `yaml:"abbreviation"`
	Variants     []string `yaml:"variants"`
}

// Registry holds the lookup tables. It is loaded once at startup and
// shared read-only by all pipeline components; runtime additions go
// through the Register* calls, which are the only mutation path.
type Registry struct {
	mu           sync.RWMutex
	authorities  []AuthorityEntry
	certOverride map[string]string // lowercased exact phrase -> abbreviation
}

type registryFile struct {
	Authorities   []AuthorityEntry  `yaml:"authorities"`
	Abbreviations map[string]string `yaml:"abbreviations"`
}

// NewRegistry returns a registry seeded with the built-in tables.
func NewRegistry() *Registry {
	r := &Registry{certOverride: make(map[string]string)}
	r.authorities = append(r.authorities, defaultAuthorities...)
	for phrase, abbr := range defaultCertOverrides {
		r.certOverride[lower(phrase)] = abbr
	}
	return r
}

// LoadFile merges additional authority and abbreviation mappings from a
// YAML file into the registry.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read registry file: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse registry file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.authorities = append(r.authorities, f.Authorities...)
	for phrase, abbr := range f.Abbreviations {
		r.certOverride[lower(phrase)] = abbr
	}
	return nil
}

// RegisterAuthority appends a custom authority mapping at runtime.
func (r *Registry) RegisterAuthority(e AuthorityEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authorities = append(r.authorities, e)
}

// RegisterAbbreviation appends a custom exact-phrase certificate
// abbreviation at runtime.
func (r *Registry) RegisterAbbreviation(phrase, abbr string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.certOverride[lower(phrase)] = abbr
}

// defaultAuthorities covers the flag states and classification
// societies that appear on the certificates this system ingests.
var defaultAuthorities = []AuthorityEntry{
	{
		Name:         "Panama Maritime Authority",
		Abbreviation: "PMA",
		Variants:     []string{"Panama Maritime Authority", "Autoridad Maritima de Panama"},
	},
	{
		Name:         "Liberia Maritime Authority",
		Abbreviation: "LMA",
		Variants:     []string{"Liberia Maritime Authority", "Liberian Registry"},
	},
	{
		Name:         "Maritime Administrator of the Marshall Islands",
		Abbreviation: "RMI",
		Variants:     []string{"Marshall Islands Maritime Administrator", "Republic of the Marshall Islands"},
	},
	{
		Name:         "Det Norske Veritas",
		Abbreviation: "DNV",
		Variants:     []string{"Det Norske Veritas", "DNV GL"},
	},
	{
		Name:         "Lloyd's Register",
		Abbreviation: "LR",
		Variants:     []string{"Lloyd's Register", "Lloyds Register of Shipping"},
	},
	{
		Name:         "Bureau Veritas",
		Abbreviation: "BV",
		Variants:     []string{"Bureau Veritas", "Bureau Veritas Marine"},
	},
	{
		Name:         "American Bureau of Shipping",
		Abbreviation: "ABS",
		Variants:     []string{"American Bureau of Shipping"},
	},
	{
		Name:         "Nippon Kaiji Kyokai",
		Abbreviation: "NKK",
		Variants:     []string{"Nippon Kaiji Kyokai", "ClassNK"},
	},
}

// defaultCertOverrides bypasses generic abbreviation generation for
// phrases whose industry abbreviation does not follow the initials rule.
var defaultCertOverrides = map[string]string{
	"Document of Compliance": "DOC",
}
