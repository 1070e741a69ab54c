package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"golru/internal/config"
	golrulog "golru/internal/log"
)

// cli carries state shared by all subcommands of one root command.
type cli struct {
	cfgFile string
	debug   bool
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "golru",
		Short: "golru - a fixed-capacity LRU cache built on a hand-rolled hash table",
		Long: `golru exercises an LRU cache built from first principles:
  • demo   - walk through eviction and promotion on a small cache
  • replay - run YAML scenario scripts and report every step`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			c.cfg = cfg

			if c.debug || cfg.Debug {
				golrulog.SetDebug(true)
			}
			return nil
		},
	}
	root.Version = version

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "configuration file path (default: ./golru.toml)")
	root.PersistentFlags().BoolVarP(&c.debug, "debug", "d", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(c.newDemoCmd())
	root.AddCommand(c.newReplayCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "golru version %s\n", version)
		},
	}
}
