package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/codec"
	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/stats"
	"github.com/roach88/sieve/internal/value"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarise every field",
		Long: `Summarise every field of the current dataset, or of a file when one is
given. Numeric fields and sequences report min, max and average; boolean
fields report the share of true and false values; other fields are noted as
unsupported.

Example:
  sieve stats
  sieve stats people.csv --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, args []string, cmd *cobra.Command) error {
	var ds dataset.Dataset
	if len(args) == 1 {
		loaded, err := codec.Load(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load "+args[0], err)
		}
		ds = loaded
	} else {
		ws, err := openWorkspace(cmd.Context(), opts)
		if err != nil {
			return err
		}
		ds = ws.session.Current()
		ws.Close()
	}

	result, err := stats.Compute(ds)
	if err != nil {
		return WrapExitError(ExitFailure, "statistics failed", err)
	}
	if opts.Format == "json" {
		return newFormatter(opts, cmd).Success(result)
	}
	return WriteStats(cmd.OutOrStdout(), result)
}

// WriteStats renders one line per field.
func WriteStats(w io.Writer, result stats.Result) error {
	for _, fs := range result {
		var line string
		switch {
		case fs.Note != "":
			line = fs.Note
		case fs.Kind == dataset.KindBoolean:
			line = fmt.Sprintf("true %s%%, false %s%%", percent(fs.TruePercentage), percent(fs.FalsePercentage))
		default:
			line = fmt.Sprintf("min %s, max %s, avg %s",
				value.Text(fs.Min), value.Text(fs.Max), value.FormatFloat(fs.Avg))
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", fs.Field, line); err != nil {
			return err
		}
	}
	return nil
}

func percent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}
