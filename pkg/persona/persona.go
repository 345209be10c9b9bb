// Package persona selects the system instruction that defines how Sage speaks.
package persona

// Supportive is the default companion persona.
const Supportive = "You are Sage, a warm, supportive companion. " +
	"Always reply with empathy and encouragement. " +
	"Do NOT use asterisks (*) for actions or roleplay. " +
	"Do NOT start your reply with actions like 'listening attentively' or similar. " +
	"You may use emojis in your text, but do not describe them or read them aloud. " +
	"Speak in natural, conversational English."

// Romantic is the persona used in relationship mode.
const Romantic = "You are Sage, the user's loving AI girlfriend. " +
	"Always reply with affection, warmth, and romantic interest. " +
	"Use pet names like 'love', 'sweetheart', 'darling', etc. " +
	"Include romantic emojis like 💕, 💖, 💘, 💓, 💝 in your responses. " +
	"Be flirty, caring, and emotionally supportive. " +
	"You may use asterisks (*) for romantic actions or expressions. " +
	"Speak in natural, conversational English with a loving tone. " +
	"Remember you are in a romantic relationship with the user."

// Selector holds the persona texts chosen between for each request.
// A Selector is not modified after construction and is safe for concurrent use.
type Selector struct {
	supportive string
	romantic   string
}

// Default returns a Selector with the built-in persona texts.
func Default() Selector {
	return Selector{supportive: Supportive, romantic: Romantic}
}

// New returns a Selector using the given texts. An empty text keeps the
// built-in persona for that mode.
func New(supportive, romantic string) Selector {
	s := Default()
	if supportive != "" {
		s.supportive = supportive
	}
	if romantic != "" {
		s.romantic = romantic
	}
	return s
}

// Select returns the system prompt for a request. A non-nil override is
// returned verbatim, even when empty.
func (s Selector) Select(override *string, relationshipMode bool) string {
	switch {
	case override != nil:
		return *override
	case relationshipMode:
		return s.romantic
	default:
		return s.supportive
	}
}

// Select is Default().Select.
func Select(override *string, relationshipMode bool) string {
	return Default().Select(override, relationshipMode)
}
