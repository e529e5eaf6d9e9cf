package playback

import "strings"

const basicPunctuation = " \t\n.,;:!?'\"-()/&"

// DetectLanguage guesses which voice should read text. Text made only of
// ASCII letters, digits and basic punctuation is read in the target
// language; anything else in the native language. It is a heuristic.
func DetectLanguage(text, target, native string) string {
	if strings.TrimSpace(text) == "" {
		return target
	}
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(basicPunctuation, r):
		default:
			return native
		}
	}
	return target
}
