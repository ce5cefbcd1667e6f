package protocol

import (
	"fmt"

	"github.com/f3rmion/fairdice/commit"
)

// Audit is the verifying side of one protocol instance. It never sees the
// committer's private state; it checks the reveal against the announcement
// it observed and the contribution it made itself.
//
// Calls must follow the order Observe, Contribute, Check.
type Audit struct {
	verifier    *commit.Verifier
	ann         Announcement
	rule        Rule
	peer        int
	observed    bool
	contributed bool
	done        bool
}

// NewAudit creates an audit using v to check commitments. A nil verifier
// uses [commit.NewVerifier].
func NewAudit(v *commit.Verifier) *Audit {
	if v == nil {
		v = commit.NewVerifier()
	}
	return &Audit{verifier: v}
}

// Observe records the published announcement.
func (a *Audit) Observe(ann Announcement) error {
	if a.observed {
		return fmt.Errorf("%w: announcement already observed", ErrOrderViolation)
	}
	if ann.Range < 2 {
		return fmt.Errorf("%w: got %d", commit.ErrInvalidRange, ann.Range)
	}
	rule, err := RuleByName(ann.Rule)
	if err != nil {
		return err
	}
	a.ann = ann
	a.ann.Commitment = ann.Commitment.Clone()
	a.rule = rule
	a.observed = true
	return nil
}

// Contribute records the peer's own contribution and returns it reduced
// into the announced range.
func (a *Audit) Contribute(peer int) (int, error) {
	if !a.observed {
		return 0, fmt.Errorf("%w: contribution before commitment", ErrOrderViolation)
	}
	if a.contributed {
		return 0, fmt.Errorf("%w: already contributed", ErrOrderViolation)
	}
	a.peer = Reduce(peer, a.ann.Range)
	a.contributed = true
	return a.peer, nil
}

// Check verifies a revealed result and returns the combined value. A nil
// result means the reveal never arrived and fails with [ErrRevealMissing].
// Any mismatch with the observed announcement fails with [ErrVerification].
func (a *Audit) Check(res *Result) (int, error) {
	if !a.observed || !a.contributed {
		return 0, fmt.Errorf("%w: check before contribution", ErrOrderViolation)
	}
	if a.done {
		return 0, fmt.Errorf("%w: already checked", ErrOrderViolation)
	}
	a.done = true

	if res == nil {
		return 0, fmt.Errorf("%w: commitment %s", ErrRevealMissing, a.ann.Commitment)
	}

	switch {
	case res.Range != a.ann.Range:
		return 0, fmt.Errorf("%w: range %d, announced %d", ErrVerification, res.Range, a.ann.Range)
	case res.Rule != a.ann.Rule:
		return 0, fmt.Errorf("%w: rule %q, announced %q", ErrVerification, res.Rule, a.ann.Rule)
	case !res.Commitment.Equal(a.ann.Commitment):
		return 0, fmt.Errorf("%w: commitment changed after announcement", ErrVerification)
	case res.Peer != a.peer:
		return 0, fmt.Errorf("%w: contribution %d, sent %d", ErrVerification, res.Peer, a.peer)
	case len(res.Opening.Secret) < commit.MinSecretSize:
		return 0, fmt.Errorf("%w: secret of %d bytes, need at least %d", ErrVerification, len(res.Opening.Secret), commit.MinSecretSize)
	case res.Opening.Value < 0 || res.Opening.Value >= a.ann.Range:
		return 0, fmt.Errorf("%w: committed value %d outside [0, %d)", ErrVerification, res.Opening.Value, a.ann.Range)
	case !a.verifier.Verify(res.Opening, a.ann.Commitment):
		return 0, fmt.Errorf("%w: opening does not match %s commitment", ErrVerification, a.ann.Commitment.Algorithm)
	}

	want := a.rule.Combine(res.Opening.Value, a.peer, a.ann.Range)
	if res.Value != want {
		return 0, fmt.Errorf("%w: result %d, recomputed %d", ErrVerification, res.Value, want)
	}
	return want, nil
}

// Abandon ends the audit without a reveal. It returns [ErrRevealMissing]
// if a commitment was observed and never checked, and nil otherwise.
func (a *Audit) Abandon() error {
	if a.observed && !a.done {
		a.done = true
		return fmt.Errorf("%w: commitment %s", ErrRevealMissing, a.ann.Commitment)
	}
	return nil
}
