// Package arbiter decides which party moves first with a two-outcome
// instance of the fair value protocol.
//
// The arbiter commits to a random bit and publishes the commitment. The
// peer then guesses the bit. After the reveal, a correct guess lets the
// peer move first; a wrong guess gives the first move to the arbiter. The
// guess is compared with the bit rather than added to it, so the instance
// runs with [protocol.GuessMatch] instead of [protocol.Additive].
package arbiter

import (
	"errors"
	"fmt"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/protocol"
)

// ErrInvalidGuess is returned for guesses other than 0 or 1.
var ErrInvalidGuess = errors.New("guess must be 0 or 1")

// Arbiter runs one first-move decision. Create it with [New].
type Arbiter struct {
	session *protocol.Session
	ann     protocol.Announcement
	guess   int
}

// Decision is the outcome of the first-move protocol.
type Decision struct {
	// PeerFirst is true when the peer guessed the committed bit.
	PeerFirst bool

	// Bit is the arbiter's committed bit.
	Bit int

	// Guess is the peer's guess.
	Guess int

	// Result holds the protocol values for verification.
	Result *protocol.Result
}

// New commits to a random bit using c, which must be unused.
func New(c *commit.Committer) (*Arbiter, error) {
	s, err := protocol.New(c, 2, protocol.GuessMatch)
	if err != nil {
		return nil, err
	}
	ann, err := s.Begin()
	if err != nil {
		return nil, err
	}
	return &Arbiter{session: s, ann: ann}, nil
}

// Announcement returns the commitment to show before asking for a guess.
func (a *Arbiter) Announcement() protocol.Announcement {
	return a.ann
}

// Guess records the peer's guess. Only 0 and 1 are accepted; an invalid
// guess leaves the arbiter waiting for a valid one.
func (a *Arbiter) Guess(bit int) error {
	if bit != 0 && bit != 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidGuess, bit)
	}
	if err := a.session.AcceptContribution(bit); err != nil {
		return err
	}
	a.guess = bit
	return nil
}

// Decide reveals the committed bit and decides who moves first.
func (a *Arbiter) Decide() (Decision, error) {
	res, err := a.session.Finalize()
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		PeerFirst: res.Value == 1,
		Bit:       res.Opening.Value,
		Guess:     a.guess,
		Result:    res,
	}, nil
}

// Abort abandons the decision; see [protocol.Session.Abort].
func (a *Arbiter) Abort() error {
	return a.session.Abort()
}
