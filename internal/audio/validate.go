package audio

import (
	"fmt"
	"strings"
)

// ValidateText checks that text is worth sending to a speech engine and
// that lang looks like a language code.
func ValidateText(text, lang string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	if lang == "" {
		return nil
	}
	if len(lang) < 2 || len(lang) > 8 {
		return fmt.Errorf("invalid language code %q", lang)
	}
	for _, r := range lang {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && r != '-' {
			return fmt.Errorf("invalid language code %q", lang)
		}
	}
	return nil
}

var languageNames = map[string]string{
	"bg": "Bulgarian",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"ru": "Russian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// LanguageName returns the English name of a language code, or the code
// itself when unknown.
func LanguageName(lang string) string {
	if name, ok := languageNames[strings.ToLower(lang)]; ok {
		return name
	}
	return lang
}
