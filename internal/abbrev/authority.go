package abbrev

import "strings"

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// NormalizeAuthority resolves a free-text issuing-authority name to its
// canonical abbreviation.
//
// Input already shaped like an abbreviation (3-5 uppercase letters) is
// passed through unchanged. A table variant matches only when the input
// equals the variant exactly, or the variant occurs as a substring of a
// strictly longer input; the length guard keeps a bare country name like
// "Panama" from over-matching "Panama Maritime Authority". Unmatched
// input is returned unchanged.
func (r *Registry) NormalizeAuthority(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return input
	}
	if IsManualAbbreviation(s) {
		return s
	}

	in := lower(s)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.authorities {
		for _, v := range append([]string{e.Name}, e.Variants...) {
			variant := lower(v)
			if variant == "" {
				continue
			}
			if in == variant {
				return e.Abbreviation
			}
			if len(in) > len(variant) && strings.Contains(in, variant) {
				return e.Abbreviation
			}
		}
	}
	return input
}

// AuthorityName returns the canonical long name for an abbreviation, or
// the input unchanged when unknown. Used when rendering certificates
// whose stored issuer is already a short code.
func (r *Registry) AuthorityName(abbr string) string {
	in := lower(abbr)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.authorities {
		if lower(e.Abbreviation) == in {
			return e.Name
		}
	}
	return abbr
}
