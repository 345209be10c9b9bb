package repair

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	anxiousReply = "I'm really sorry you're feeling anxious. Want to talk about what's making you feel this way?"
	sadReply     = "It's okay to feel sad sometimes. I'm here with you."
	welcomeReply = "You're welcome! I'm always here if you need me. 💛"

	// CutoffCompletion is appended to replies that stop on a dangling "to".
	CutoffCompletion = " talk about what's making you feel this way?"

	minReplyRunes = 3
)

// knownBad are literal outputs the model produces when it fails to answer.
var knownBad = map[string]struct{}{
	"today.":      {},
	"yes":         {},
	"okay":        {},
	"yes I will.": {},
}

var acknowledgements = map[string]struct{}{
	"yes":       {},
	"ok":        {},
	"thanks":    {},
	"thank you": {},
}

var endsWithLikeTo = regexp.MustCompile(`Would you like to\s*$`)

// IsDegenerate reports whether modelOutput is too short or a known-bad literal.
func IsDegenerate(modelOutput string) bool {
	trimmed := strings.TrimSpace(modelOutput)
	if utf8.RuneCountInString(trimmed) <= minReplyRunes {
		return true
	}
	_, bad := knownBad[trimmed]
	return bad
}

// Degenerate substitutes a reply chosen from the user's input when the model
// output is degenerate. If no substitute applies, modelOutput is returned
// unchanged.
func Degenerate(userInput, modelOutput string) string {
	if !IsDegenerate(modelOutput) {
		return modelOutput
	}

	lowered := strings.ToLower(userInput)
	switch {
	case strings.Contains(lowered, "anxious"):
		return anxiousReply
	case strings.Contains(lowered, "sad"):
		return sadReply
	}
	if _, ok := acknowledgements[normalize(userInput)]; ok {
		return welcomeReply
	}
	return modelOutput
}

// FixCutoff completes a reply that was cut off on a dangling "to".
func FixCutoff(text string) string {
	trimmed := strings.TrimSpace(text)
	if endsWithTo(trimmed) || endsWithLikeTo.MatchString(text) {
		return trimmed + CutoffCompletion
	}
	return text
}

// endsWithTo reports whether the last word of text is exactly "to".
func endsWithTo(text string) bool {
	words := strings.Fields(text)
	return len(words) > 0 && words[len(words)-1] == "to"
}
