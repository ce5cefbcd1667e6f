// Package game runs the interactive dice game between a human and the
// computer. Every random value the computer produces goes through the fair
// value protocol: the computer commits, the human contributes a number, and
// the reveal is audited before it counts.
package game

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"cosmossdk.io/log"

	"github.com/f3rmion/fairdice/arbiter"
	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/dice"
	"github.com/f3rmion/fairdice/odds"
	"github.com/f3rmion/fairdice/protocol"
)

// ErrQuit is returned by [Session.Play] when the human leaves the game.
var ErrQuit = errors.New("player quit")

// Score counts finished rounds.
type Score struct {
	Human    int
	Computer int
	Ties     int
	Rounds   int
}

// Winner returns "human", "computer" or "tie".
func (s *Score) Winner() string {
	switch {
	case s.Human > s.Computer:
		return "human"
	case s.Computer > s.Human:
		return "computer"
	default:
		return "tie"
	}
}

// Config configures a [Session].
type Config struct {
	// Dice is the set both players choose from. At least two are needed.
	Dice []dice.Die

	// Rounds is the number of rounds to play.
	Rounds int

	// Hasher selects the commitment digest. Nil uses SHA3-256.
	Hasher commit.Hasher

	// SecretSize is the secret length in bytes. Zero uses
	// [commit.MinSecretSize].
	SecretSize int

	// Rand is the computer's entropy source. Nil uses crypto/rand.
	Rand io.Reader

	In  io.Reader
	Out io.Writer

	// Logger receives protocol events. Nil discards them.
	Logger log.Logger
}

// Session is one game. Create sessions using [NewSession].
type Session struct {
	cfg    Config
	matrix *odds.Matrix
	prompt *prompt
	out    io.Writer
	logger log.Logger
}

// NewSession validates cfg and prepares the odds for the help table.
func NewSession(cfg Config) (*Session, error) {
	if len(cfg.Dice) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 dice, got %d", dice.ErrInvalidDie, len(cfg.Dice))
	}
	for i, d := range cfg.Dice {
		if d.Len() < dice.MinFaces {
			return nil, fmt.Errorf("die %d: %w", i, dice.ErrInvalidDie)
		}
	}
	if cfg.Rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", cfg.Rounds)
	}
	if cfg.Hasher == nil {
		cfg.Hasher = &commit.SHA3Hasher{}
	}
	if cfg.SecretSize == 0 {
		cfg.SecretSize = commit.MinSecretSize
	}
	if cfg.SecretSize < commit.MinSecretSize {
		return nil, fmt.Errorf("secret size must be at least %d bytes, got %d", commit.MinSecretSize, cfg.SecretSize)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	if cfg.In == nil || cfg.Out == nil {
		return nil, errors.New("input and output are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}

	s := &Session{
		cfg:    cfg,
		matrix: odds.NewMatrix(cfg.Dice),
		out:    cfg.Out,
		logger: cfg.Logger,
	}
	s.prompt = newPrompt(cfg.In, cfg.Out, s.showHelp)
	return s, nil
}

// Help renders the odds table shown for "?".
func (s *Session) Help() string {
	return RenderMatrix(s.matrix)
}

// Play runs the configured number of rounds, updating score as each round
// finishes. It returns [ErrQuit] if the human exits early, joined with
// [protocol.ErrRevealMissing] when an instance was left unopened.
// Cancelling ctx abandons the current round the same way.
func (s *Session) Play(ctx context.Context, score *Score) error {
	s.printf("Dice: %v\n", s.cfg.Dice)
	for round := 1; round <= s.cfg.Rounds; round++ {
		s.printf("\n--- Round %d ---\n", round)
		if err := s.playRound(ctx, score); err != nil {
			return err
		}
		score.Rounds++
		s.printf("Score: you %d, computer %d, ties %d\n", score.Human, score.Computer, score.Ties)
	}

	switch score.Winner() {
	case "human":
		s.printf("\nYou win the game %d to %d!\n", score.Human, score.Computer)
	case "computer":
		s.printf("\nComputer wins the game %d to %d!\n", score.Computer, score.Human)
	default:
		s.printf("\nThe game ends in a tie.\n")
	}
	return nil
}

func (s *Session) playRound(ctx context.Context, score *Score) error {
	humanFirst, err := s.decideFirst(ctx)
	if err != nil {
		return err
	}

	var human, computer int
	if humanFirst {
		s.printf("You choose your die first.\n")
		if human, err = s.chooseDie(ctx, -1); err != nil {
			return err
		}
		computer = s.matrix.BestAgainst(human)
	} else {
		computer = s.matrix.Safest()
		s.printf("I choose first and take %v.\n", s.cfg.Dice[computer])
		if human, err = s.chooseDie(ctx, computer); err != nil {
			return err
		}
	}
	s.printf("You play %v, I play %v.\n", s.cfg.Dice[human], s.cfg.Dice[computer])
	s.logger.Debug("dice selected", "human", human, "computer", computer)

	s.printf("\nMy throw.\n")
	mine, err := s.throw(ctx, s.cfg.Dice[computer])
	if err != nil {
		return err
	}
	s.printf("My throw is %d.\n", mine)

	s.printf("\nYour throw.\n")
	yours, err := s.throw(ctx, s.cfg.Dice[human])
	if err != nil {
		return err
	}
	s.printf("Your throw is %d.\n", yours)

	switch {
	case yours > mine:
		score.Human++
		s.printf("You win (%d > %d)!\n", yours, mine)
	case mine > yours:
		score.Computer++
		s.printf("I win (%d > %d)!\n", mine, yours)
	default:
		score.Ties++
		s.printf("Tie (%d = %d).\n", yours, mine)
	}
	return nil
}

// decideFirst runs the first-move protocol and reports whether the human
// moves first.
func (s *Session) decideFirst(ctx context.Context) (bool, error) {
	c, err := s.committer()
	if err != nil {
		return false, err
	}
	a, err := arbiter.New(c)
	if err != nil {
		return false, err
	}
	ann := a.Announcement()
	audit := protocol.NewAudit(nil)
	if err := audit.Observe(ann); err != nil {
		return false, err
	}
	s.announce("Let's determine who makes the first move. I selected a random value in the range 0..1", ann)

	var guess int
	for {
		line, err := s.prompt.ask(ctx, "Try to guess my selection [0, 1]: ")
		if err != nil {
			return false, s.abandon(err, a.Abort, audit)
		}
		n, ok := parseInt(line)
		if !ok {
			s.printf("Please enter 0 or 1.\n")
			continue
		}
		if err := a.Guess(n); err != nil {
			if errors.Is(err, arbiter.ErrInvalidGuess) {
				s.printf("Please enter 0 or 1.\n")
				continue
			}
			return false, err
		}
		guess = n
		break
	}
	if _, err := audit.Contribute(guess); err != nil {
		return false, err
	}

	d, err := a.Decide()
	if err != nil {
		return false, err
	}
	s.reveal(d.Result)
	if _, err := audit.Check(d.Result); err != nil {
		s.logger.Error("first-move reveal failed verification", "err", err)
		return false, err
	}
	s.logger.Debug("first move decided", "bit", d.Bit, "guess", d.Guess, "human_first", d.PeerFirst)
	if d.PeerFirst {
		s.printf("You guessed right.\n")
	} else {
		s.printf("Wrong guess.\n")
	}
	return d.PeerFirst, nil
}

// chooseDie asks the human for a die index, excluding taken.
func (s *Session) chooseDie(ctx context.Context, taken int) (int, error) {
	for {
		s.printf("Choose your die:\n")
		for i, d := range s.cfg.Dice {
			if i == taken {
				continue
			}
			s.printf("  %d - %v\n", i, d)
		}
		s.printf("  x - exit\n  ? - help\n")

		line, err := s.prompt.ask(ctx, "Your selection: ")
		if err != nil {
			if errors.Is(err, errExit) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				s.printf("Goodbye.\n")
				return 0, fmt.Errorf("%w: %w", ErrQuit, err)
			}
			return 0, err
		}
		i, ok := parseInt(line)
		switch {
		case !ok || i < 0 || i >= len(s.cfg.Dice):
			s.printf("No die %q.\n", line)
		case i == taken:
			s.printf("Die %d is taken.\n", i)
		default:
			return i, nil
		}
	}
}

// throw rolls d with the computer committing and the human contributing,
// and returns the audited face.
func (s *Session) throw(ctx context.Context, d dice.Die) (int, error) {
	c, err := s.committer()
	if err != nil {
		return 0, err
	}
	r, err := d.Roll(c)
	if err != nil {
		return 0, err
	}
	ann := r.Announcement()
	audit := protocol.NewAudit(nil)
	if err := audit.Observe(ann); err != nil {
		return 0, err
	}
	s.announce(fmt.Sprintf("I selected a random value in the range 0..%d", ann.Range-1), ann)

	var peer int
	for {
		line, err := s.prompt.ask(ctx, fmt.Sprintf("Add your number modulo %d: ", ann.Range))
		if err != nil {
			return 0, s.abandon(err, r.Abort, audit)
		}
		n, ok := parseInt(line)
		if !ok {
			s.printf("Please enter an integer.\n")
			continue
		}
		peer = n
		break
	}
	if _, err := audit.Contribute(peer); err != nil {
		return 0, err
	}
	if err := r.Contribute(peer); err != nil {
		return 0, err
	}

	out, err := r.Reveal()
	if err != nil {
		return 0, err
	}
	s.reveal(out.Result)
	idx, err := audit.Check(out.Result)
	if err != nil {
		s.logger.Error("throw reveal failed verification", "err", err)
		return 0, err
	}
	s.logger.Debug("throw verified", "range", ann.Range, "index", idx, "face", out.Face)
	return d.Face(idx), nil
}

// abandon handles a prompt error while a commitment is outstanding. Exits
// and cancellation become ErrQuit joined with the unopened commitment;
// other errors pass through after the instance is aborted.
func (s *Session) abandon(cause error, abort func() error, audit *protocol.Audit) error {
	abortErr := abort()
	auditErr := audit.Abandon()
	if auditErr != nil {
		s.logger.Info("instance abandoned", "err", auditErr)
		s.printf("Abandoned: %v\n", auditErr)
	}
	if errors.Is(cause, errExit) || errors.Is(cause, io.EOF) || errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		s.printf("Goodbye.\n")
		return errors.Join(fmt.Errorf("%w: %w", ErrQuit, cause), abortErr)
	}
	return errors.Join(cause, abortErr)
}

func (s *Session) committer() (*commit.Committer, error) {
	return commit.NewCommitterWithSecretSize(s.cfg.Rand, s.cfg.Hasher, s.cfg.SecretSize)
}

func (s *Session) announce(msg string, ann protocol.Announcement) {
	s.printf("%s\n(%s=%s).\n", msg, ann.Commitment.Algorithm, ann.Commitment)
	s.logger.Debug("commitment published", "range", ann.Range, "rule", ann.Rule, "alg", ann.Commitment.Algorithm)
}

func (s *Session) reveal(res *protocol.Result) {
	s.printf("KEY=%s\nMy selection: %d.\n", res.Opening.Secret, res.Opening.Value)
	if res.Rule == protocol.RuleAdditive {
		s.printf("The result is %d + %d = %d (mod %d).\n", res.Opening.Value, res.Peer, res.Value, res.Range)
	}
}

func (s *Session) showHelp() {
	s.printf("Probability of the win for the user:\n%s\n", s.Help())
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
