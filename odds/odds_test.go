package odds

import (
	"errors"
	"math"
	"testing"

	"github.com/f3rmion/fairdice/dice"
)

var (
	dieA = dice.MustNew(2, 2, 4, 4, 9, 9)
	dieB = dice.MustNew(1, 1, 6, 6, 8, 8)
	dieC = dice.MustNew(3, 3, 5, 5, 7, 7)
	d6   = dice.MustNew(1, 2, 3, 4, 5, 6)
)

func TestCompare(t *testing.T) {
	o := Compare(dieA, dieB)
	if o.Wins != 20 || o.Losses != 16 || o.Ties != 0 || o.Total != 36 {
		t.Fatalf("Compare(A, B) = %+v, want 20/16/0 of 36", o)
	}
	if math.Abs(o.First()-0.5556) > 1e-4 {
		t.Errorf("First() = %.4f, want 0.5556", o.First())
	}
	if math.Abs(o.Second()-0.4444) > 1e-4 {
		t.Errorf("Second() = %.4f, want 0.4444", o.Second())
	}
	if o.Tie() != 0 {
		t.Errorf("Tie() = %f, want 0", o.Tie())
	}
}

func TestCompareSymmetric(t *testing.T) {
	set := []dice.Die{dieA, dieB, dieC, d6, dice.MustNew(0, 10), dice.MustNew(-1, 3, 3, 3, 7)}
	for _, a := range set {
		for _, b := range set {
			ab, ba := Compare(a, b), Compare(b, a)
			if ab.First() != ba.Second() {
				t.Errorf("%v vs %v: First %f != reversed Second %f", a, b, ab.First(), ba.Second())
			}
			if ab != ba.Swap() {
				t.Errorf("%v vs %v: %+v is not the swap of %+v", a, b, ab, ba)
			}
			if s := ab.First() + ab.Second() + ab.Tie(); math.Abs(s-1) > 1e-9 {
				t.Errorf("%v vs %v: probabilities sum to %f", a, b, s)
			}
		}
	}
}

func TestCompareUnequalLength(t *testing.T) {
	coin := dice.MustNew(0, 10)
	o := Compare(coin, d6)
	// 0 loses to all six faces, 10 beats all six.
	if o.Wins != 6 || o.Losses != 6 || o.Ties != 0 || o.Total != 12 {
		t.Errorf("Compare(coin, d6) = %+v", o)
	}

	self := Compare(d6, d6)
	if self.Wins != 15 || self.Losses != 15 || self.Ties != 6 {
		t.Errorf("Compare(d6, d6) = %+v", self)
	}
}

func TestMatrix(t *testing.T) {
	set := []dice.Die{dieA, dieB, dieC}
	m := NewMatrix(set)

	if m.Len() != 3 {
		t.Fatalf("Len() = %d", m.Len())
	}
	for i := 0; i < m.Len(); i++ {
		if _, ok := m.At(i, i); ok {
			t.Errorf("diagonal (%d, %d) should be undefined", i, i)
		}
		for j := 0; j < m.Len(); j++ {
			if i == j {
				continue
			}
			o, ok := m.At(i, j)
			if !ok {
				t.Fatalf("(%d, %d) undefined", i, j)
			}
			if s := o.First() + o.Second() + o.Tie(); math.Abs(s-1) > 1e-9 {
				t.Errorf("(%d, %d) sums to %f", i, j, s)
			}
			if o != Compare(set[i], set[j]) {
				t.Errorf("(%d, %d) = %+v, want %+v", i, j, o, Compare(set[i], set[j]))
			}
		}
	}

	if _, ok := m.At(-1, 0); ok {
		t.Error("negative index should be undefined")
	}
	if _, ok := m.At(0, 3); ok {
		t.Error("out of range index should be undefined")
	}
}

func TestNonTransitive(t *testing.T) {
	m := NewMatrix([]dice.Die{dieA, dieB, dieC})

	if !m.Beats(0, 1) || !m.Beats(1, 2) || !m.Beats(2, 0) {
		t.Fatal("expected A beats B beats C beats A")
	}

	cycle, ok := m.Cycle()
	if !ok {
		t.Fatal("expected a cycle")
	}
	if len(cycle) != 3 {
		t.Fatalf("cycle = %v", cycle)
	}
	for k := range cycle {
		if !m.Beats(cycle[k], cycle[(k+1)%len(cycle)]) {
			t.Errorf("cycle %v: %d does not beat %d", cycle, cycle[k], cycle[(k+1)%len(cycle)])
		}
	}

	t.Run("BestAgainst", func(t *testing.T) {
		want := map[int]int{0: 2, 1: 0, 2: 1}
		for j, i := range want {
			if got := m.BestAgainst(j); got != i {
				t.Errorf("BestAgainst(%d) = %d, want %d", j, got, i)
			}
		}
	})

	t.Run("Safest", func(t *testing.T) {
		// Every die has the same worst case, so the first one wins.
		if got := m.Safest(); got != 0 {
			t.Errorf("Safest() = %d, want 0", got)
		}
	})
}

func TestTransitive(t *testing.T) {
	m := NewMatrix([]dice.Die{d6, d6, d6, d6})
	if _, ok := m.Cycle(); ok {
		t.Error("identical dice have no cycle")
	}
	if got := m.BestAgainst(0); got != 1 {
		t.Errorf("BestAgainst(0) = %d, want 1", got)
	}

	strong := dice.MustNew(5, 6, 7, 8, 9, 10)
	m = NewMatrix([]dice.Die{d6, strong})
	if got := m.Safest(); got != 1 {
		t.Errorf("Safest() = %d, want 1", got)
	}
	if got := m.BestAgainst(1); got != 0 {
		t.Errorf("BestAgainst(1) = %d, want 0", got)
	}

	single := NewMatrix([]dice.Die{d6})
	if single.BestAgainst(0) != -1 || single.Safest() != -1 {
		t.Error("single die should have no pick")
	}
}

func TestSumDistribution(t *testing.T) {
	dist, err := SumDistribution(d6, d6)
	if err != nil {
		t.Fatal(err)
	}
	if dist.Total != 36 {
		t.Fatalf("Total = %d", dist.Total)
	}
	if dist.Counts[7] != 6 || dist.Counts[2] != 1 || dist.Counts[12] != 1 {
		t.Errorf("unexpected counts %v", dist.Counts)
	}
	sums := dist.Sums()
	if len(sums) != 11 || sums[0] != 2 || sums[10] != 12 {
		t.Errorf("Sums() = %v", sums)
	}

	var total float64
	for _, s := range sums {
		total += dist.P(s)
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("probabilities sum to %f", total)
	}

	three, err := SumDistribution(dieA, dieB, dieC)
	if err != nil {
		t.Fatal(err)
	}
	if three.Total != 216 {
		t.Errorf("Total = %d, want 216", three.Total)
	}
}

func TestSumDistributionOverflow(t *testing.T) {
	// 6^25 exceeds 2^63.
	set := make([]dice.Die, 25)
	for i := range set {
		set[i] = dice.MustNew(0, 0, 0, 0, 0, 0)
	}
	if _, err := SumDistribution(set...); !errors.Is(err, ErrTooManyOutcomes) {
		t.Errorf("expected ErrTooManyOutcomes, got %v", err)
	}

	dist, err := SumDistribution(set[:24]...)
	if err != nil {
		t.Fatalf("24 dice: %v", err)
	}
	if dist.Counts[0] != dist.Total {
		t.Errorf("Counts[0] = %d, Total = %d", dist.Counts[0], dist.Total)
	}
}
