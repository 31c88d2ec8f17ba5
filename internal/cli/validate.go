package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mydigitalpro/toctoc-feed/internal/sim"
)

// ValidationResult holds validation results for one scenario file.
type ValidationResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Parse and validate scenario YAML files.

Checks script structure, fixture validity and step ops without executing
anything. Faster than simulate for script development feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	results := make([]ValidationResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		res := ValidationResult{Path: path, Valid: true}
		if _, err := sim.LoadScenario(path); err != nil {
			res.Valid = false
			res.Error = err.Error()
			failed++
		}
		results = append(results, res)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", res.Path)
			} else {
				fmt.Fprintf(formatter.Writer, "✗ %s\n  %s\n", res.Path, res.Error)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) invalid", failed, len(paths)))
	}
	return nil
}
