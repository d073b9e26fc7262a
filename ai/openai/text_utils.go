package openai

import "strings"

// maxClassifierInput bounds the text sent to the classifier. Chunks are
// already token-bounded upstream; this guards against oversized inputs when
// the classifier is used directly.
const maxClassifierInput = 8000

// truncateForPrompt caps text at maxClassifierInput runes.
func truncateForPrompt(s string) string {
	runes := []rune(s)
	if len(runes) <= maxClassifierInput {
		return s
	}
	return string(runes[:maxClassifierInput])
}

// stripCodeFences removes markdown code fences around a model response.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
