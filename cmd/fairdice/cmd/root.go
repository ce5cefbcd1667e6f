// Package cmd implements the fairdice command line.
package cmd

import (
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/f3rmion/fairdice/commit"
	"github.com/f3rmion/fairdice/config"
	"github.com/f3rmion/fairdice/dice"
	"github.com/f3rmion/fairdice/diceconf"
)

// app carries the settings shared by all subcommands.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger log.Logger
}

// NewRootCmd creates the fairdice root command. Each call uses its own
// viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "fairdice",
		Short: "A dice game whose every throw you can verify",
		Long: `fairdice plays a dice game against the computer. Before each throw the
computer commits to a random value and shows the digest; you add a number
of your own; afterwards the computer reveals its value and secret key so you
can check that it did not change its mind.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ReadFile(a.v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.String("algorithm", commit.DefaultAlgorithm, "commitment digest algorithm")
	flags.Int("secret-size", commit.MinSecretSize, "secret key length in bytes")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "log as JSON")
	flags.String("preset", "nontransitive", "built-in dice set ("+strings.Join(diceconf.Presets(), ", ")+")")
	flags.String("file", "", "YAML dice set file, overrides --preset")
	a.bind(flags.Lookup("algorithm"), config.KeyAlgorithm)
	a.bind(flags.Lookup("secret-size"), config.KeySecretSize)
	a.bind(flags.Lookup("log-level"), config.KeyLogLevel)
	a.bind(flags.Lookup("log-json"), config.KeyLogJSON)
	a.bind(flags.Lookup("preset"), config.KeyPreset)
	a.bind(flags.Lookup("file"), config.KeyDiceFile)

	rootCmd.AddCommand(
		newPlayCmd(a),
		newTableCmd(a),
		newVerifyCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) bind(f *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// dice resolves the dice set: command arguments first, then the dice file,
// then the preset.
func (a *app) dice(args []string) (string, []dice.Die, error) {
	switch {
	case len(args) > 0:
		set, err := diceconf.ParseAll(args)
		return "custom", set, err
	case a.cfg.DiceFile != "":
		return diceconf.LoadFile(a.cfg.DiceFile)
	default:
		set, err := diceconf.Preset(a.cfg.Preset)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", config.KeyPreset, err)
		}
		return a.cfg.Preset, set, nil
	}
}
