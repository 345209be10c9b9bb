package repair

import "fmt"

// Pass is one post-processing step over a reply.
type Pass func(userInput, text string) string

// Pass names accepted by ParsePasses.
const (
	PassDegenerate = "degenerate"
	PassCutoff     = "cutoff"
)

// DefaultPasses is the pass order used when none is configured.
var DefaultPasses = []string{PassDegenerate, PassCutoff}

var passes = map[string]Pass{
	PassDegenerate: Degenerate,
	PassCutoff:     cutoff,
}

func cutoff(_, text string) string {
	return FixCutoff(text)
}

// Chain composes passes left to right.
func Chain(ps ...Pass) Pass {
	return func(userInput, text string) string {
		for _, p := range ps {
			text = p(userInput, text)
		}
		return text
	}
}

// ParsePasses resolves pass names into a Chain in the given order.
func ParsePasses(names []string) (Pass, error) {
	ps := make([]Pass, 0, len(names))
	for _, name := range names {
		p, ok := passes[name]
		if !ok {
			return nil, fmt.Errorf("unknown repair pass %q", name)
		}
		ps = append(ps, p)
	}
	return Chain(ps...), nil
}
