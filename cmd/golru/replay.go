package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	golrulog "golru/internal/log"
	"golru/internal/scenario"
)

var errScenarioFailed = errors.New("one or more scenarios failed")

func (c *cli) newReplayCmd() *cobra.Command {
	var (
		format      string
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "replay FILE...",
		Short: "Run YAML scenario scripts against fresh caches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = c.cfg.ReportFormat
			}
			if parallelism <= 0 {
				parallelism = c.cfg.Parallelism
			}

			scenarios, err := scenario.LoadFiles(args)
			if err != nil {
				return err
			}

			runner := &scenario.Runner{
				DefaultCapacity: c.cfg.DefaultCapacity,
				Logger:          golrulog.WithModule("replay"),
			}
			reports, err := runner.RunAll(cmd.Context(), scenarios, parallelism)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			if err := scenario.Encode(cmd.OutOrStdout(), format, reports); err != nil {
				return err
			}
			for _, r := range reports {
				if !r.Passed() {
					return errScenarioFailed
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: text, toml or yaml (default: config report_format)")
	cmd.Flags().IntVarP(&parallelism, "parallel", "p", 0, "scenarios to run at once (default: config parallelism)")
	return cmd
}
