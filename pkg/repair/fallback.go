// Package repair post-processes raw engine output: it replaces degenerate
// replies with context-aware fallbacks and completes known truncations.
package repair

import "strings"

// fallbacks maps normalized trivial inputs to canned replies.
var fallbacks = map[string]string{
	"yes":       "Got it! 😊 Let me know if there's more on your mind.",
	"ok":        "Alright! I'm here if you ever want to talk more.",
	"thank you": "Anytime! You're doing great 💛",
	"thanks":    "You're very welcome! I'm always here for you. 💛",
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsGeneric reports whether text is a trivial acknowledgement with a canned
// reply. Matching is exact after trimming and lower-casing.
func IsGeneric(text string) bool {
	_, ok := fallbacks[normalize(text)]
	return ok
}

// FallbackReply returns the canned reply for a generic input.
func FallbackReply(text string) (string, bool) {
	reply, ok := fallbacks[normalize(text)]
	return reply, ok
}
