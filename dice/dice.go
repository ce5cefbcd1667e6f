// Package dice models dice with arbitrary integer faces whose throws are
// produced by the fair value protocol.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/protocol"
)

// MinFaces is the smallest number of faces a die may have.
const MinFaces = 2

// ErrInvalidDie indicates a die configuration that cannot be played.
var ErrInvalidDie = errors.New("invalid die configuration")

// Die is an immutable, ordered sequence of face values.
// The zero value has no faces and cannot be rolled.
type Die struct {
	faces []int
}

// New creates a die with the given faces, in order. Faces may repeat and
// may be negative.
func New(faces ...int) (Die, error) {
	if len(faces) < MinFaces {
		return Die{}, fmt.Errorf("%w: need at least %d faces, got %d", ErrInvalidDie, MinFaces, len(faces))
	}
	f := make([]int, len(faces))
	copy(f, faces)
	return Die{faces: f}, nil
}

// MustNew is like New but panics on error. Use it for built-in dice.
func MustNew(faces ...int) Die {
	d, err := New(faces...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of faces.
func (d Die) Len() int {
	return len(d.faces)
}

// Face returns the value of face i.
func (d Die) Face(i int) int {
	return d.faces[i]
}

// Faces returns a copy of the face values.
func (d Die) Faces() []int {
	f := make([]int, len(d.faces))
	copy(f, d.faces)
	return f
}

// String renders the die as "[2,2,4,4,9,9]".
func (d Die) String() string {
	parts := make([]string, len(d.faces))
	for i, f := range d.faces {
		parts[i] = strconv.Itoa(f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Roll is one throw of a die in progress. The commitment is available as
// soon as the roll starts; the face only after the peer has contributed
// and the value has been revealed.
type Roll struct {
	die     Die
	session *protocol.Session
	ann     protocol.Announcement
}

// Outcome is a finished throw.
type Outcome struct {
	// Face is the face value that came up.
	Face int

	// Result holds the protocol values that produced the face index.
	Result *protocol.Result
}

// Roll starts a throw committed by c. The committer must be unused.
func (d Die) Roll(c *commit.Committer) (*Roll, error) {
	if d.Len() < MinFaces {
		return nil, fmt.Errorf("%w: die has %d faces", ErrInvalidDie, d.Len())
	}
	s, err := protocol.New(c, d.Len(), protocol.Additive)
	if err != nil {
		return nil, err
	}
	ann, err := s.Begin()
	if err != nil {
		return nil, err
	}
	return &Roll{die: d, session: s, ann: ann}, nil
}

// Announcement returns the range and commitment to show before asking the
// peer for a contribution.
func (r *Roll) Announcement() protocol.Announcement {
	return r.ann
}

// Contribute passes the peer's number to the protocol.
func (r *Roll) Contribute(peer int) error {
	return r.session.AcceptContribution(peer)
}

// Reveal finishes the throw and returns the face with its protocol values.
func (r *Roll) Reveal() (Outcome, error) {
	res, err := r.session.Finalize()
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Face: r.die.Face(res.Value), Result: res}, nil
}

// Abort abandons the throw; see [protocol.Session.Abort].
func (r *Roll) Abort() error {
	return r.session.Abort()
}
