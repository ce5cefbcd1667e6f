package protocol

import "fmt"

// Rule names.
const (
	RuleAdditive   = "additive"
	RuleGuessMatch = "guess-match"
)

// Rule combines the committed value with the peer's contribution.
// Both inputs are already reduced into [0, n); the output must be too.
type Rule interface {
	Name() string
	Combine(committed, peer, n int) int
}

var (
	// Additive returns (committed + peer) mod n.
	Additive Rule = additive{}

	// GuessMatch returns 1 when the peer's value equals the committed value
	// and 0 otherwise.
	GuessMatch Rule = guessMatch{}
)

type additive struct{}

func (additive) Name() string { return RuleAdditive }

func (additive) Combine(committed, peer, n int) int {
	return Reduce(committed+peer, n)
}

type guessMatch struct{}

func (guessMatch) Name() string { return RuleGuessMatch }

func (guessMatch) Combine(committed, peer, _ int) int {
	if committed == peer {
		return 1
	}
	return 0
}

// RuleByName returns the built-in rule called name.
func RuleByName(name string) (Rule, error) {
	switch name {
	case RuleAdditive:
		return Additive, nil
	case RuleGuessMatch:
		return GuessMatch, nil
	default:
		return nil, fmt.Errorf("unknown combination rule %q", name)
	}
}

// Reduce returns v mod n in [0, n), including for negative v.
func Reduce(v, n int) int {
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}
