// Package odds computes exact win, loss and tie probabilities between dice
// by enumerating every pair of faces.
//
// Results are kept as integer counts so comparisons between dice are exact;
// the float accessors exist for display. The package is deterministic and
// uses no randomness.
package odds

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/f3rmion/fairdice/dice"
)

// Odds is the outcome count of one throw of a first die against one throw
// of a second die.
type Odds struct {
	Wins   int // first die shows the higher face
	Losses int // second die shows the higher face
	Ties   int
	Total  int
}

// First returns the probability that the first die wins.
func (o Odds) First() float64 { return ratio(o.Wins, o.Total) }

// Second returns the probability that the second die wins.
func (o Odds) Second() float64 { return ratio(o.Losses, o.Total) }

// Tie returns the probability of equal faces.
func (o Odds) Tie() float64 { return ratio(o.Ties, o.Total) }

// Swap returns the odds seen from the second die.
func (o Odds) Swap() Odds {
	return Odds{Wins: o.Losses, Losses: o.Wins, Ties: o.Ties, Total: o.Total}
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// Compare enumerates all face pairs of a and b.
func Compare(a, b dice.Die) Odds {
	o := Odds{Total: a.Len() * b.Len()}
	for i := 0; i < a.Len(); i++ {
		fa := a.Face(i)
		for j := 0; j < b.Len(); j++ {
			fb := b.Face(j)
			switch {
			case fa > fb:
				o.Wins++
			case fb > fa:
				o.Losses++
			default:
				o.Ties++
			}
		}
	}
	return o
}

// Matrix holds the pairwise odds of a set of dice. Cell (i, j) is die i
// against die j; the diagonal is not computed.
type Matrix struct {
	dice  []dice.Die
	cells [][]Odds
}

// NewMatrix compares every ordered pair of distinct dice in set.
func NewMatrix(set []dice.Die) *Matrix {
	n := len(set)
	m := &Matrix{
		dice:  append([]dice.Die(nil), set...),
		cells: make([][]Odds, n),
	}
	for i := range m.cells {
		m.cells[i] = make([]Odds, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			o := Compare(set[i], set[j])
			m.cells[i][j] = o
			m.cells[j][i] = o.Swap()
		}
	}
	return m
}

// Len returns the number of dice.
func (m *Matrix) Len() int {
	return len(m.dice)
}

// Die returns die i.
func (m *Matrix) Die(i int) dice.Die {
	return m.dice[i]
}

// At returns the odds of die i against die j. ok is false on the diagonal
// and for indices out of range.
func (m *Matrix) At(i, j int) (o Odds, ok bool) {
	if i == j || i < 0 || j < 0 || i >= len(m.dice) || j >= len(m.dice) {
		return Odds{}, false
	}
	return m.cells[i][j], true
}

// Beats reports whether die i wins against die j more often than it loses.
func (m *Matrix) Beats(i, j int) bool {
	o, ok := m.At(i, j)
	return ok && o.Wins > o.Losses
}

// BestAgainst returns the die with the highest chance of beating die j,
// or -1 if there is no other die. Ties go to the lowest index.
func (m *Matrix) BestAgainst(j int) int {
	best := -1
	for i := range m.dice {
		o, ok := m.At(i, j)
		if !ok {
			continue
		}
		if best < 0 || better(o, m.cells[best][j]) {
			best = i
		}
	}
	return best
}

// Safest returns the die whose worst match-up is best, which is the
// sensible pick when the opponent chooses second. It returns -1 for sets
// with fewer than two dice.
func (m *Matrix) Safest() int {
	best, bestWorst := -1, Odds{}
	for i := range m.dice {
		worst, found := Odds{}, false
		for j := range m.dice {
			o, ok := m.At(i, j)
			if !ok {
				continue
			}
			if !found || better(worst, o) {
				worst, found = o, true
			}
		}
		if !found {
			continue
		}
		if best < 0 || better(worst, bestWorst) {
			best, bestWorst = i, worst
		}
	}
	return best
}

// better reports whether a has a strictly higher win probability than b,
// comparing the fractions exactly.
func better(a, b Odds) bool {
	return a.Wins*b.Total > b.Wins*a.Total
}

// Cycle returns a sequence of dice in which each die beats the next and
// the last beats the first, if the set contains one. A set with a cycle is
// non-transitive: whichever die the opponent picks, another die beats it.
func (m *Matrix) Cycle() ([]int, bool) {
	n := len(m.dice)
	const (
		unvisited = iota
		active
		finished
	)
	state := make([]int, n)
	var stack []int

	var visit func(i int) []int
	visit = func(i int) []int {
		state[i] = active
		stack = append(stack, i)
		for j := 0; j < n; j++ {
			if !m.Beats(i, j) {
				continue
			}
			switch state[j] {
			case active:
				for k, v := range stack {
					if v == j {
						return append([]int(nil), stack[k:]...)
					}
				}
			case unvisited:
				if c := visit(j); c != nil {
					return c
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = finished
		return nil
	}

	for i := 0; i < n; i++ {
		if state[i] == unvisited {
			if c := visit(i); c != nil {
				return c, true
			}
		}
	}
	return nil, false
}

// Distribution is the exact distribution of the sum of one throw of each
// of several dice.
type Distribution struct {
	Counts map[int]int
	Total  int
}

// ErrTooManyOutcomes is returned when the number of face combinations does
// not fit in an int.
var ErrTooManyOutcomes = errors.New("too many outcomes")

// SumDistribution convolves the face counts of set. An empty set yields a
// single sum of zero. It fails with [ErrTooManyOutcomes] when the product
// of the face counts overflows.
func SumDistribution(set ...dice.Die) (Distribution, error) {
	counts := map[int]int{0: 1}
	total := 1
	for i, d := range set {
		if d.Len() == 0 {
			continue
		}
		if total > math.MaxInt/d.Len() {
			return Distribution{}, fmt.Errorf("%w: %d dice, overflow at die %d", ErrTooManyOutcomes, len(set), i+1)
		}
		next := make(map[int]int, len(counts)*d.Len())
		for s, c := range counts {
			for f := 0; f < d.Len(); f++ {
				next[s+d.Face(f)] += c
			}
		}
		counts = next
		total *= d.Len()
	}
	return Distribution{Counts: counts, Total: total}, nil
}

// Sums returns the possible sums in ascending order.
func (d Distribution) Sums() []int {
	sums := make([]int, 0, len(d.Counts))
	for s := range d.Counts {
		sums = append(sums, s)
	}
	sort.Ints(sums)
	return sums
}

// P returns the probability of sum s.
func (d Distribution) P(s int) float64 {
	return ratio(d.Counts[s], d.Total)
}
