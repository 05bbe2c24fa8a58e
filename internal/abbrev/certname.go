package abbrev

import (
	"regexp"
	"strings"
)

var reWord = regexp.MustCompile(`[A-Za-z]+`)

// noisePhrases are qualifiers that carry no signal for abbreviation
// purposes and are stripped before tokenizing.
var noisePhrases = []string{
	"statement of compliance",
	"statement of voluntary compliance",
	"statement of fact",
}

// stopWords are dropped during tokenization.
var stopWords = map[string]struct{}{
	"of": {}, "the": {}, "and": {}, "for": {}, "on": {},
	"in": {}, "to": {}, "a": {}, "an": {},
}

// maxInitials caps how many significant words contribute to the
// generated abbreviation.
const maxInitials = 6

// CertificateAbbreviation derives a short code from a certificate name.
//
// Already-abbreviated input (3-5 uppercase letters) is returned
// unchanged, as are exact phrases registered as overrides (e.g.
// "Document of Compliance" -> "DOC"). Otherwise the name is stripped of
// noise phrases, tokenized, filtered of stop words, and reduced to the
// initials of up to the first six significant words. A trailing C
// contributed by the literal word "Certificate" is dropped.
func (r *Registry) CertificateAbbreviation(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	if IsManualAbbreviation(s) {
		return s
	}

	r.mu.RLock()
	override, ok := r.certOverride[lower(s)]
	r.mu.RUnlock()
	if ok {
		return override
	}

	cleaned := lower(s)
	for _, phrase := range noisePhrases {
		cleaned = strings.ReplaceAll(cleaned, phrase, " ")
	}

	var significant []string
	for _, w := range reWord.FindAllString(cleaned, -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		significant = append(significant, w)
		if len(significant) == maxInitials {
			break
		}
	}
	if len(significant) == 0 {
		return strings.ToUpper(s)
	}

	var b strings.Builder
	for _, w := range significant {
		b.WriteByte(w[0] - 'a' + 'A')
	}
	abbr := b.String()

	last := significant[len(significant)-1]
	if strings.HasSuffix(abbr, "C") && last == "certificate" {
		abbr = abbr[:len(abbr)-1]
	}
	return abbr
}
