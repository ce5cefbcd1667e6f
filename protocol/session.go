package protocol

import (
	"errors"
	"fmt"
	"sync"

	"github.com/f3rmion/fairdice/commit"
)

var (
	// ErrOrderViolation is returned when a step is called out of order.
	ErrOrderViolation = commit.ErrOrderViolation

	// ErrVerification is returned when a reveal does not match what was
	// announced. It is evidence that the committer cheated.
	ErrVerification = errors.New("reveal failed verification")

	// ErrRevealMissing is returned when an instance ends after its
	// commitment was published but before it was revealed.
	ErrRevealMissing = errors.New("commitment was never revealed")
)

// State is the position of a [Session] in the protocol.
type State int

const (
	Idle State = iota
	Committed
	ContributionReceived
	Revealed
	Abandoned
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Committed:
		return "committed"
	case ContributionReceived:
		return "contribution-received"
	case Revealed:
		return "revealed"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Announcement is everything the peer sees when the instance begins.
type Announcement struct {
	// Range is the number of possible results.
	Range int

	// Rule names the combination rule.
	Rule string

	// Commitment binds the committer to its value. Its Algorithm field
	// names the digest for display.
	Commitment commit.Commitment
}

// Result is the outcome of a finished instance, with everything a peer
// needs to recompute it.
type Result struct {
	Range      int
	Rule       string
	Commitment commit.Commitment

	// Opening is the revealed secret and committed value.
	Opening commit.Opening

	// Peer is the peer's contribution reduced into [0, Range).
	Peer int

	// Value is the combined result in [0, Range).
	Value int
}

// Session runs one protocol instance on the committing side.
// Create sessions using [New].
type Session struct {
	mu         sync.Mutex
	committer  *commit.Committer
	rule       Rule
	n          int
	state      State
	commitment commit.Commitment
	peer       int
}

// New creates a session producing a value in [0, n) with the given rule.
// The committer must be unused; it is consumed by the session. A nil rule
// selects [Additive].
//
// n < 2 fails with [commit.ErrInvalidRange].
func New(c *commit.Committer, n int, rule Rule) (*Session, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", commit.ErrInvalidRange, n)
	}
	if c == nil {
		return nil, errors.New("committer is required")
	}
	if rule == nil {
		rule = Additive
	}
	return &Session{
		committer: c,
		rule:      rule,
		n:         n,
	}, nil
}

// State returns the current protocol state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Range returns the number of possible results.
func (s *Session) Range() int {
	return s.n
}

// Begin commits to a fresh value and returns the announcement to publish.
// The committed value and secret stay inside the session.
func (s *Session) Begin() (Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return Announcement{}, fmt.Errorf("%w: begin in state %s", ErrOrderViolation, s.state)
	}

	_, cm, err := s.committer.Commit(s.n)
	if err != nil {
		return Announcement{}, err
	}
	s.commitment = cm
	s.state = Committed

	return s.announcement(), nil
}

// AcceptContribution records the peer's value. Any integer is accepted and
// reduced modulo the range.
func (s *Session) AcceptContribution(peer int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Committed {
		return fmt.Errorf("%w: contribution in state %s", ErrOrderViolation, s.state)
	}
	s.peer = Reduce(peer, s.n)
	s.state = ContributionReceived
	return nil
}

// Finalize reveals the committed value and combines it with the peer's
// contribution.
func (s *Session) Finalize() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != ContributionReceived {
		return nil, fmt.Errorf("%w: finalize in state %s", ErrOrderViolation, s.state)
	}

	opening, err := s.committer.Reveal()
	if err != nil {
		return nil, err
	}
	s.state = Revealed

	return &Result{
		Range:      s.n,
		Rule:       s.rule.Name(),
		Commitment: s.commitment.Clone(),
		Opening:    opening,
		Peer:       s.peer,
		Value:      s.rule.Combine(opening.Value, s.peer, s.n),
	}, nil
}

// Abort ends the session early. Aborting before Begin has no observable
// effect and returns nil. Aborting after the commitment was published
// returns [ErrRevealMissing], since the peer holds a commitment that will
// never be opened. Aborting a finished session is a no-op.
func (s *Session) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Idle:
		s.state = Abandoned
		return nil
	case Committed, ContributionReceived:
		s.state = Abandoned
		return fmt.Errorf("%w: aborted with commitment %s outstanding", ErrRevealMissing, s.commitment)
	default:
		return nil
	}
}

func (s *Session) announcement() Announcement {
	return Announcement{
		Range:      s.n,
		Rule:       s.rule.Name(),
		Commitment: s.commitment.Clone(),
	}
}
