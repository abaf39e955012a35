package translation

import (
	"regexp"
	"strings"
)

// DefaultLanguage is the language all stored text is written in
const DefaultLanguage = "en"

// SupportedLanguages maps language codes to the names used in prompts
var SupportedLanguages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"ta": "Tamil",
	"te": "Telugu",
	"bn": "Bengali",
	"mr": "Marathi",
	"gu": "Gujarati",
	"kn": "Kannada",
	"ml": "Malayalam",
	"pa": "Punjabi",
	"or": "Odia",
}

// IsSupported reports whether lang can be used as a translation target
func IsSupported(lang string) bool {
	_, ok := SupportedLanguages[lang]
	return ok
}

// ResolveLanguage picks the caller language from, in order, the token claim,
// the X-User-Language header and the primary subtag of Accept-Language.
func ResolveLanguage(claim, header, acceptLanguage string) string {
	if claim != "" {
		return strings.ToLower(claim)
	}
	if header != "" {
		return strings.ToLower(strings.TrimSpace(header))
	}
	if acceptLanguage != "" {
		first := strings.Split(acceptLanguage, ",")[0]
		first = strings.Split(first, ";")[0]
		primary := strings.Split(strings.TrimSpace(first), "-")[0]
		if primary != "" && primary != "*" {
			return strings.ToLower(primary)
		}
	}
	return DefaultLanguage
}

var scripts = []struct {
	lang string
	re   *regexp.Regexp
}{
	{"hi", regexp.MustCompile(`[\x{0900}-\x{097F}]`)}, // Devanagari, also used by Marathi
	{"ta", regexp.MustCompile(`[\x{0B80}-\x{0BFF}]`)},
	{"te", regexp.MustCompile(`[\x{0C00}-\x{0C7F}]`)},
	{"bn", regexp.MustCompile(`[\x{0980}-\x{09FF}]`)},
	{"gu", regexp.MustCompile(`[\x{0A80}-\x{0AFF}]`)},
	{"kn", regexp.MustCompile(`[\x{0C80}-\x{0CFF}]`)},
	{"ml", regexp.MustCompile(`[\x{0D00}-\x{0D7F}]`)},
	{"pa", regexp.MustCompile(`[\x{0A00}-\x{0A7F}]`)},
	{"or", regexp.MustCompile(`[\x{0B00}-\x{0B7F}]`)},
}

// DetectLanguage guesses the language of text from its script. Text in no
// Indic script is reported as English.
func DetectLanguage(text string) string {
	for _, s := range scripts {
		if s.re.MatchString(text) {
			return s.lang
		}
	}
	return DefaultLanguage
}
