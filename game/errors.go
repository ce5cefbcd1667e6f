package game

import (
	"errors"

	"github.com/alecthomas/participle/v2"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/dice"
	"github.com/f3rmion/fairdice/odds"
	"github.com/f3rmion/fairdice/protocol"
)

// IsIntegrityFailure reports whether err means the opponent's values could
// not be verified: a reveal that does not match its commitment, or a
// commitment that was never opened.
func IsIntegrityFailure(err error) bool {
	return errors.Is(err, protocol.ErrVerification) || errors.Is(err, protocol.ErrRevealMissing)
}

// IsConfigError reports whether err comes from an unusable die set, range
// or digest algorithm, including a set too large to enumerate.
func IsConfigError(err error) bool {
	var perr participle.Error
	return errors.Is(err, dice.ErrInvalidDie) ||
		errors.Is(err, commit.ErrInvalidRange) ||
		errors.Is(err, commit.ErrUnknownAlgorithm) ||
		errors.Is(err, odds.ErrTooManyOutcomes) ||
		errors.As(err, &perr)
}
