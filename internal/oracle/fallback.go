package oracle

import (
	"path/filepath"
	"strings"
)

// fallbackConfidence marks results produced without any model involvement.
const fallbackConfidence = 0.1

// filenameHints maps lowercase filename fragments to a likely certificate
// name. Checked in order so more specific fragments win.
var filenameHints = []struct {
	fragment string
	certName string
}{
	{"iopp", "International Oil Pollution Prevention Certificate"},
	{"iapp", "International Air Pollution Prevention Certificate"},
	{"ispp", "International Sewage Pollution Prevention Certificate"},
	{"safety equipment", "Cargo Ship Safety Equipment Certificate"},
	{"safety construction", "Cargo Ship Safety Construction Certificate"},
	{"safety radio", "Cargo Ship Safety Radio Certificate"},
	{"load line", "International Load Line Certificate"},
	{"loadline", "International Load Line Certificate"},
	{"tonnage", "International Tonnage Certificate"},
	{"safety management", "Safety Management Certificate"},
	{"smc", "Safety Management Certificate"},
	{"doc", "Document of Compliance"},
	{"issc", "International Ship Security Certificate"},
	{"mlc", "Maritime Labour Certificate"},
	{"class", "Certificate of Class"},
	{"registry", "Certificate of Registry"},
}

// FallbackFromFilename produces the minimal field set derivable from the
// upload's filename alone. Every result carries ExtractionError=true so
// downstream consumers know no document content was read. The result is
// never nil-equivalent: at worst the certificate name is the bare
// filename stem.
func FallbackFromFilename(filename string) ExtractedFieldSet {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name := cleanStem(stem)

	lower := strings.ToLower(name)
	for _, h := range filenameHints {
		if strings.Contains(lower, h.fragment) {
			name = h.certName
			break
		}
	}
	if name == "" {
		name = "Unknown Certificate"
	}

	return ExtractedFieldSet{
		CertificateName: name,
		Confidence:      fallbackConfidence,
		ExtractionError: true,
	}
}

func cleanStem(stem string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(stem)
	return strings.Join(strings.Fields(replaced), " ")
}
