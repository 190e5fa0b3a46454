package llm

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// SummaryPrompt asks for the patient history condensed into retrieval-friendly pointers
func SummaryPrompt(history string) string {
	return "You have to summarize the patient's history into short pointers" +
		"(only the parts useful for querying documents): " + history
}

// CausesPrompt asks for the likely causes of a diagnosis given the summarized
// history and the retrieved reference passages
func CausesPrompt(diagnosis, summary, academia string) string {
	var b strings.Builder
	b.WriteString("You are an assistant who gives the causes given the following diagnosis: ")
	b.WriteString(diagnosis)
	b.WriteString(",\nAnd the following patient history : ")
	b.WriteString(summary)
	b.WriteString("\nYou have the following medical academia to infer a cause : ")
	b.WriteString(academia)
	return b.String()
}

// TreatmentPrompt asks for pointwise treatment given the diagnosis, the
// generated causes and the retrieved reference passages
func TreatmentPrompt(diagnosis, causes, reference string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant and your role is to give the treatment(in pointers) for the following diagnosis: ")
	b.WriteString(diagnosis)
	b.WriteString("\nYou are given the following sets of causes: ")
	b.WriteString(causes)
	b.WriteString("\nUse the following academia as reference: ")
	b.WriteString(reference)
	return b.String()
}

// TranslatePrompt asks for text to be rendered in the target language
func TranslatePrompt(target language.Tag, text string) string {
	return "Convert the following text to " + LanguageName(target) + ": " + text
}

// LanguageName returns the lower-case English name of a language, e.g. "hindi"
func LanguageName(tag language.Tag) string {
	base, _ := tag.Base()
	name := display.English.Languages().Name(base)
	if name == "" {
		return tag.String()
	}
	return strings.ToLower(name)
}
