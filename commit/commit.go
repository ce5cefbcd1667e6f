package commit

import (
	"bytes"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"sync"
)

// MinSecretSize is the minimum and default secret length in bytes.
const MinSecretSize = 32

var (
	// ErrInvalidRange is returned when a commitment is requested over fewer
	// than two values.
	ErrInvalidRange = errors.New("range must be at least 2")

	// ErrOrderViolation is returned when a protocol step is called out of
	// order, such as revealing before committing or committing twice.
	ErrOrderViolation = errors.New("protocol order violation")

	// ErrUnknownAlgorithm is returned for digest names with no registered
	// [Hasher].
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")
)

// Secret is the random blinding value bound into a commitment.
type Secret []byte

// String returns the secret as upper-case hex.
func (s Secret) String() string {
	return fmt.Sprintf("%X", []byte(s))
}

// ParseSecret decodes a hex-encoded secret.
func ParseSecret(s string) (Secret, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	return Secret(b), nil
}

// Commitment is a published digest together with the algorithm that
// produced it.
type Commitment struct {
	Algorithm string
	Digest    []byte
}

// String returns the digest as upper-case hex.
func (c Commitment) String() string {
	return fmt.Sprintf("%X", c.Digest)
}

// Equal reports whether c and o name the same algorithm and digest.
func (c Commitment) Equal(o Commitment) bool {
	return c.Algorithm == o.Algorithm && bytes.Equal(c.Digest, o.Digest)
}

// ParseCommitment decodes a hex digest published under algorithm.
func ParseCommitment(algorithm, digest string) (Commitment, error) {
	if _, err := Lookup(algorithm); err != nil {
		return Commitment{}, err
	}
	b, err := hex.DecodeString(digest)
	if err != nil {
		return Commitment{}, fmt.Errorf("decode commitment: %w", err)
	}
	return Commitment{Algorithm: algorithm, Digest: b}, nil
}

// Opening is the revealed pair that opens a commitment.
type Opening struct {
	Secret Secret
	Value  int
}

// Committer produces a single commitment and later reveals it.
// Create instances using [NewCommitter].
//
// A Committer is used exactly once: a second Commit, or a Reveal before
// Commit or after a previous Reveal, returns [ErrOrderViolation].
type Committer struct {
	mu         sync.Mutex
	rng        io.Reader
	hasher     Hasher
	secretSize int

	opening    Opening
	commitment Commitment
	committed  bool
	revealed   bool
}

// NewCommitter creates a committer drawing entropy from rng.
// A nil hasher selects SHA3-256.
func NewCommitter(rng io.Reader, h Hasher) *Committer {
	if h == nil {
		h = &SHA3Hasher{}
	}
	return &Committer{
		rng:        rng,
		hasher:     h,
		secretSize: MinSecretSize,
	}
}

// NewCommitterWithSecretSize creates a committer with a secret longer than
// [MinSecretSize].
func NewCommitterWithSecretSize(rng io.Reader, h Hasher, size int) (*Committer, error) {
	if size < MinSecretSize {
		return nil, fmt.Errorf("secret size must be at least %d bytes, got %d", MinSecretSize, size)
	}
	c := NewCommitter(rng, h)
	c.secretSize = size
	return c, nil
}

// Algorithm returns the name of the committer's digest algorithm.
func (c *Committer) Algorithm() string {
	return c.hasher.Name()
}

// Commit draws a value uniformly from [0, n) and a fresh secret, and
// returns both together with the commitment to them.
//
// The opening stays with the committing party; only the commitment may be
// published at this point. n < 2 fails with [ErrInvalidRange] before any
// entropy is read.
func (c *Committer) Commit(n int) (Opening, Commitment, error) {
	if n < 2 {
		return Opening{}, Commitment{}, fmt.Errorf("%w: got %d", ErrInvalidRange, n)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committed {
		return Opening{}, Commitment{}, fmt.Errorf("%w: already committed", ErrOrderViolation)
	}

	value, err := uniform(c.rng, n)
	if err != nil {
		return Opening{}, Commitment{}, fmt.Errorf("draw value: %w", err)
	}
	secret := make(Secret, c.secretSize)
	if _, err := io.ReadFull(c.rng, secret); err != nil {
		return Opening{}, Commitment{}, fmt.Errorf("draw secret: %w", err)
	}

	c.opening = Opening{Secret: secret, Value: value}
	c.commitment = Commitment{
		Algorithm: c.hasher.Name(),
		Digest:    digest(c.hasher, secret, value),
	}
	c.committed = true

	return c.opening.Clone(), c.commitment.Clone(), nil
}

// Reveal returns the opening generated by Commit. It can be called once.
func (c *Committer) Reveal() (Opening, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.committed {
		return Opening{}, fmt.Errorf("%w: reveal before commit", ErrOrderViolation)
	}
	if c.revealed {
		return Opening{}, fmt.Errorf("%w: already revealed", ErrOrderViolation)
	}
	c.revealed = true
	return c.opening.Clone(), nil
}

// IsRevealed reports whether the opening has been revealed.
func (c *Committer) IsRevealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed
}

// Verifier checks openings against published commitments.
type Verifier struct{}

// NewVerifier returns a Verifier that recomputes digests with the
// algorithm named in each commitment.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify reports whether o opens c. Unknown algorithms and secrets shorter
// than [MinSecretSize] never verify.
func (v *Verifier) Verify(o Opening, c Commitment) bool {
	if len(o.Secret) < MinSecretSize {
		return false
	}
	h, err := Lookup(c.Algorithm)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(digest(h, o.Secret, o.Value), c.Digest) == 1
}

// digest hashes len(secret) ‖ secret ‖ decimal(value). The length prefix
// fixes where the secret ends, so digits cannot move between the secret
// and the value.
func digest(h Hasher, secret Secret, value int) []byte {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(secret)))
	return h.Sum(size[:], secret, []byte(strconv.Itoa(value)))
}

// uniform returns a value in [0, n) by rejection sampling on the smallest
// bit mask covering n-1, so every value is equally likely.
func uniform(r io.Reader, n int) (int, error) {
	limit := uint64(n - 1)
	bitLen := bits.Len64(limit)
	k := (bitLen + 7) / 8
	mask := byte(0xff)
	if b := bitLen % 8; b != 0 {
		mask = byte(1<<b) - 1
	}

	buf := make([]byte, k)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, err
		}
		buf[0] &= mask
		var v uint64
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
		if v <= limit {
			return int(v), nil
		}
	}
}

// Clone returns a deep copy of o.
func (o Opening) Clone() Opening {
	return Opening{Secret: bytes.Clone(o.Secret), Value: o.Value}
}

// Clone returns a deep copy of c.
func (c Commitment) Clone() Commitment {
	return Commitment{Algorithm: c.Algorithm, Digest: bytes.Clone(c.Digest)}
}
