package answer

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// documentFor maps every diagnosis with reference material to its document.
// All diabetic retinopathy grades share one file, as do both AMD forms.
var documentFor = map[string]string{
	"Mild_DR":                  "diabetic_retinopathy.txt",
	"Moderate_DR":              "diabetic_retinopathy.txt",
	"Severe_DR":                "diabetic_retinopathy.txt",
	"Proliferate_DR":           "diabetic_retinopathy.txt",
	"Glaucoma":                 "glaucoma.txt",
	"Cataract":                 "cataract.txt",
	"Dry_AMD":                  "amd.txt",
	"Wet_AMD":                  "amd.txt",
	"Hypertensive_Retinopathy": "hypertensive_retinopathy.txt",
}

// normalDiagnoses short-circuit the pipeline. "normal" is accepted for
// older clients.
var normalDiagnoses = map[string]bool{
	"Normal_Fundus": true,
	"normal":        true,
}

var normalMessages = map[language.Base]string{
	base(language.English): "Congratulations, you are normal!",
	base(language.Hindi):   "बधाई हो, आप बिलकुल ठीक हैं",
}

// DocumentFor returns the reference document file name for diagnosis.
func DocumentFor(diagnosis string) (string, error) {
	doc, ok := documentFor[diagnosis]
	if !ok {
		return "", &UnmappedDiagnosisError{Diagnosis: diagnosis}
	}
	return doc, nil
}

// Documents returns every distinct reference document name, sorted.
func Documents() []string {
	seen := make(map[string]bool)
	var docs []string
	for _, doc := range documentFor {
		if !seen[doc] {
			seen[doc] = true
			docs = append(docs, doc)
		}
	}
	sort.Strings(docs)
	return docs
}

// IsNormal reports whether diagnosis denotes a healthy fundus.
func IsNormal(diagnosis string) bool {
	return normalDiagnoses[diagnosis]
}

// NormalMessage returns the congratulatory message in lang.
func NormalMessage(lang language.Tag) string {
	return normalMessages[base(lang)]
}

// ParseLanguage accepts English and Hindi. Region subtags are ignored and an
// empty string means English.
func ParseLanguage(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.English, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	switch base(tag) {
	case base(language.English):
		return language.English, nil
	case base(language.Hindi):
		return language.Hindi, nil
	}
	return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

func base(tag language.Tag) language.Base {
	b, _ := tag.Base()
	return b
}
