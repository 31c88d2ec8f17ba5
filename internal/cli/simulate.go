package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mydigitalpro/toctoc-feed/internal/sim"
)

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Run a scripted feed session and print its trace",
		Long: `Run one scenario file against an in-memory fixture backend.

The scenario controls every async boundary (remote completions, timers,
the clock), so repeated runs of the same scenario produce identical
traces.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSimulate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sc, err := sim.LoadScenario(path)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	cfg, err := sim.ConfigFromEnv()
	if err != nil {
		_ = formatter.Error("E002", err.Error(), nil)
		return WrapExitError(ExitCommandError, "read config", err)
	}

	formatter.VerboseLog("Running scenario %q (%d steps)", sc.Name, len(sc.Steps))

	res, err := sim.NewRunner(cfg).Run(sc)
	if err != nil {
		_ = formatter.Error("E003", err.Error(), nil)
		return WrapExitError(ExitFailure, "scenario failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(res)
	}

	fmt.Fprintf(formatter.Writer, "scenario %s: %d trace events\n", res.ScenarioName, len(res.Trace))
	for _, ev := range res.Trace {
		switch ev.Type {
		case "active_changed":
			prev, active := -1, -1
			if ev.Previous != nil {
				prev = *ev.Previous
			}
			if ev.Active != nil {
				active = *ev.Active
			}
			fmt.Fprintf(formatter.Writer, "%4d  active %d -> %d (%s)\n", ev.Seq, prev, active, ev.VideoID)
		case "resource":
			fmt.Fprintf(formatter.Writer, "%4d  player %-7s %s\n", ev.Seq, ev.Op, ev.VideoID)
		case "request":
			fmt.Fprintf(formatter.Writer, "%4d  request %-12s %s\n", ev.Seq, ev.Op, ev.VideoID)
		case "notice":
			fmt.Fprintf(formatter.Writer, "%4d  notice %s %s\n", ev.Seq, ev.Notice, ev.VideoID)
		case "snapshot":
			s := ev.Snapshot
			fmt.Fprintf(formatter.Writer, "%4d  snapshot active=%d playing=%v feed=%d pool=%d\n",
				ev.Seq, s.ActiveIndex, s.Playing, s.FeedLen, s.PoolSize)
		default:
			fmt.Fprintf(formatter.Writer, "%4d  %s\n", ev.Seq, ev.Type)
		}
	}
	return nil
}
