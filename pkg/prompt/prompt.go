// Package prompt assembles the single text prompt sent to the generation engine.
package prompt

import (
	"strings"

	"github.com/papercomputeco/sage/pkg/llm"
)

const (
	// DefaultWindow is the number of trailing history entries kept.
	DefaultWindow = 10

	// Cue is the final prompt line; the engine continues Sage's turn from it.
	Cue = "Sage:"

	userPrefix = "User: "
	sagePrefix = "Sage: "
)

// Builder builds prompts with a bounded history window.
type Builder struct {
	// Window caps how many of the most recent history entries are considered.
	// Zero or negative means DefaultWindow.
	Window int
}

// Build returns the prompt for userMessage given history and system text.
// The window applies to raw history entries before unknown roles are dropped.
func (b Builder) Build(userMessage string, history []llm.Turn, system string) string {
	window := b.Window
	if window <= 0 {
		window = DefaultWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	lines := make([]string, 0, len(history)+3)
	lines = append(lines, system)

	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		switch turn.NormalizedRole() {
		case llm.RoleUser:
			lines = append(lines, userPrefix+content)
		case llm.RoleAssistant:
			lines = append(lines, sagePrefix+content)
		}
	}

	lines = append(lines, userPrefix+userMessage, Cue)
	return strings.Join(lines, "\n")
}

// Build uses a Builder with the default window.
func Build(userMessage string, history []llm.Turn, system string) string {
	return Builder{}.Build(userMessage, history, system)
}
