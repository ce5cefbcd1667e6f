package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/protocol"
)

type verifyFlags struct {
	alg        string
	secret     string
	value      int
	commitment string
	n          int
	peer       int
	rule       string
	result     int
}

func newVerifyCmd(a *app) *cobra.Command {
	var f verifyFlags

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a revealed value against its commitment",
		Long: `Recompute the commitment from the revealed secret key and value. With
--range the combined result is recomputed as well and, if --result is
given, compared with the claimed one.`,
		Example: `  fairdice verify --secret 9F0C... --value 3 --commitment 51AB...
  fairdice verify --alg sha256 --secret 9F0C... --value 3 --commitment 51AB... \
      --range 6 --peer 4 --result 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.alg == "" {
				f.alg = a.cfg.Algorithm
			}
			var claimed *int
			if cmd.Flags().Changed("result") {
				claimed = &f.result
			}
			v, err := f.check(claimed)
			if err != nil {
				a.logger.Error("verification failed", "alg", f.alg, "err", err)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "OK: %s commitment matches value %d\n", f.alg, f.value)
			if f.n > 0 {
				fmt.Fprintf(out, "OK: result %d (rule %s, range %d, contribution %d)\n", v, f.rule, f.n, f.peer)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.alg, "alg", "", "digest algorithm (default from --algorithm)")
	flags.StringVar(&f.secret, "secret", "", "revealed secret key, hex")
	flags.IntVar(&f.value, "value", 0, "revealed committed value")
	flags.StringVar(&f.commitment, "commitment", "", "published commitment, hex")
	flags.IntVar(&f.n, "range", 0, "range of the instance; enables result checking")
	flags.IntVar(&f.peer, "peer", 0, "your contribution")
	flags.StringVar(&f.rule, "rule", protocol.RuleAdditive, "combination rule ("+protocol.RuleAdditive+" or "+protocol.RuleGuessMatch+")")
	flags.IntVar(&f.result, "result", 0, "claimed combined result")
	for _, name := range []string{"secret", "value", "commitment"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

// check verifies the opening and, when a range is set, replays the
// instance through an audit. It returns the combined result.
func (f verifyFlags) check(claimed *int) (int, error) {
	secret, err := commit.ParseSecret(f.secret)
	if err != nil {
		return 0, err
	}
	cm, err := commit.ParseCommitment(f.alg, f.commitment)
	if err != nil {
		return 0, err
	}
	opening := commit.Opening{Secret: secret, Value: f.value}

	if f.n == 0 {
		if !commit.NewVerifier().Verify(opening, cm) {
			return 0, fmt.Errorf("%w: opening does not match %s commitment", protocol.ErrVerification, cm.Algorithm)
		}
		return f.value, nil
	}

	rule, err := protocol.RuleByName(f.rule)
	if err != nil {
		return 0, err
	}
	audit := protocol.NewAudit(nil)
	if err := audit.Observe(protocol.Announcement{Range: f.n, Rule: rule.Name(), Commitment: cm}); err != nil {
		return 0, err
	}
	peer, err := audit.Contribute(f.peer)
	if err != nil {
		return 0, err
	}
	value := rule.Combine(f.value, peer, f.n)
	if claimed != nil {
		value = *claimed
	}
	return audit.Check(&protocol.Result{
		Range:      f.n,
		Rule:       rule.Name(),
		Commitment: cm,
		Opening:    opening,
		Peer:       peer,
		Value:      value,
	})
}
