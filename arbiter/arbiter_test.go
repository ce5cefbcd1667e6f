package arbiter

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/protocol"
)

// constReader yields the same byte forever.
type constReader byte

func (r constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		rng       constReader // 0xff commits to 1, 0x00 to 0
		guess     int
		peerFirst bool
	}{
		{"Bit1Guess1", 0xff, 1, true},
		{"Bit1Guess0", 0xff, 0, false},
		{"Bit0Guess0", 0x00, 0, true},
		{"Bit0Guess1", 0x00, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(commit.NewCommitter(tt.rng, nil))
			if err != nil {
				t.Fatal(err)
			}
			ann := a.Announcement()
			if ann.Range != 2 || ann.Rule != protocol.RuleGuessMatch {
				t.Fatalf("unexpected announcement %+v", ann)
			}

			audit := protocol.NewAudit(nil)
			if err := audit.Observe(ann); err != nil {
				t.Fatal(err)
			}
			if _, err := audit.Contribute(tt.guess); err != nil {
				t.Fatal(err)
			}

			if err := a.Guess(tt.guess); err != nil {
				t.Fatal(err)
			}
			d, err := a.Decide()
			if err != nil {
				t.Fatal(err)
			}
			if d.PeerFirst != tt.peerFirst {
				t.Errorf("PeerFirst = %v, want %v (bit %d, guess %d)", d.PeerFirst, tt.peerFirst, d.Bit, d.Guess)
			}
			if d.Guess != tt.guess {
				t.Errorf("Guess = %d, want %d", d.Guess, tt.guess)
			}

			v, err := audit.Check(d.Result)
			if err != nil {
				t.Fatalf("audit failed: %v", err)
			}
			if (v == 1) != d.PeerFirst {
				t.Error("audited value disagrees with decision")
			}
		})
	}
}

func TestGuessValidation(t *testing.T) {
	a, err := New(commit.NewCommitter(rand.Reader, nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range []int{-1, 2, 7} {
		if err := a.Guess(g); !errors.Is(err, ErrInvalidGuess) {
			t.Errorf("Guess(%d): expected ErrInvalidGuess, got %v", g, err)
		}
	}

	// A rejected guess does not consume the instance.
	if err := a.Guess(1); err != nil {
		t.Fatalf("valid guess after invalid ones: %v", err)
	}
	if err := a.Guess(0); !errors.Is(err, protocol.ErrOrderViolation) {
		t.Errorf("second guess: expected ErrOrderViolation, got %v", err)
	}
}

func TestDecideBeforeGuess(t *testing.T) {
	a, err := New(commit.NewCommitter(rand.Reader, nil))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Decide(); !errors.Is(err, protocol.ErrOrderViolation) {
		t.Errorf("expected ErrOrderViolation, got %v", err)
	}
	if err := a.Abort(); !errors.Is(err, protocol.ErrRevealMissing) {
		t.Errorf("expected ErrRevealMissing, got %v", err)
	}
}

func TestDecideDistribution(t *testing.T) {
	// An always-zero guesser still goes first about half the time.
	const trials = 2000
	first := 0
	for i := 0; i < trials; i++ {
		a, err := New(commit.NewCommitter(rand.Reader, nil))
		if err != nil {
			t.Fatal(err)
		}
		a.Guess(0)
		d, err := a.Decide()
		if err != nil {
			t.Fatal(err)
		}
		if d.PeerFirst {
			first++
		}
	}
	// Six standard deviations around 1000.
	if first < 866 || first > 1134 {
		t.Errorf("peer went first %d of %d times", first, trials)
	}
}
