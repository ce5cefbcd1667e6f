package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/config"
	"github.com/f3rmion/fairdice/game"
)

func newPlayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [DIE ...]",
		Short: "Play the dice game",
		Long: `Play against the computer. Each DIE is a list of faces such as 2,2,4,4,9,9.
Without dice arguments the set comes from --file or --preset.

At any prompt, type ? for the odds table or x to leave.`,
		Example: `  fairdice play
  fairdice play 2,2,4,4,9,9 1,1,6,6,8,8 3,3,5,5,7,7 --rounds 5
  fairdice play --preset standard --algorithm blake2b-256`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, set, err := a.dice(args)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			h, err := a.cfg.Hasher()
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			a.logger.Debug("starting game", "set", name, "dice", len(set), "rounds", a.cfg.Rounds, "alg", h.Name())

			s, err := game.NewSession(game.Config{
				Dice:       set,
				Rounds:     a.cfg.Rounds,
				Hasher:     h,
				SecretSize: a.cfg.SecretSize,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
				Logger:     a.logger,
			})
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			var score game.Score
			err = s.Play(cmd.Context(), &score)
			switch {
			case err == nil:
				a.logger.Info("game finished", "human", score.Human, "computer", score.Computer, "ties", score.Ties)
				return nil
			case errors.Is(err, game.ErrQuit):
				a.logger.Info("game left early", "rounds", score.Rounds, "human", score.Human, "computer", score.Computer)
				return nil
			case game.IsIntegrityFailure(err):
				a.logger.Error("opponent failed verification", "err", err)
				return fmt.Errorf("integrity failure: %w", err)
			case game.IsConfigError(err):
				return fmt.Errorf("configuration error: %w", err)
			default:
				return err
			}
		},
	}

	cmd.Flags().Int("rounds", 3, "number of rounds")
	a.bind(cmd.Flags().Lookup("rounds"), config.KeyRounds)
	return cmd
}
