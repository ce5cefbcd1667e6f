package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/f3rmion/fairdice/game"
	"github.com/f3rmion/fairdice/odds"
)

func newTableCmd(a *app) *cobra.Command {
	var sums bool

	cmd := &cobra.Command{
		Use:   "table [DIE ...]",
		Short: "Print the win probabilities of a dice set",
		Example: `  fairdice table
  fairdice table 1,2,3,4,5,6 2,2,2,5,5,5
  fairdice table --preset standard --sums`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, set, err := a.dice(args)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Dice set %s: probability of the win for the user\n", name)
			fmt.Fprintln(out, game.RenderMatrix(odds.NewMatrix(set)))
			if sums {
				dist, err := odds.SumDistribution(set...)
				if err != nil {
					return fmt.Errorf("configuration error: %w", err)
				}
				fmt.Fprintf(out, "\nSum of one throw of each die:\n")
				fmt.Fprintln(out, game.RenderSums(dist))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sums, "sums", false, "also print the distribution of the sum of all dice")
	return cmd
}
