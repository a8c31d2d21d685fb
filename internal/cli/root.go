package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/config"
	"github.com/roach88/sieve/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string
	Config  string

	// Logger is built from Verbose before any subcommand runs. Commands
	// constructed directly in tests may leave it nil.
	Logger *zap.Logger

	// IDs generates session ids. Defaults to UUIDv7Generator.
	IDs session.IDGenerator
}

// Option configures the root command.
type Option func(*RootOptions)

// WithIDGenerator sets the generator used for new session ids.
func WithIDGenerator(g session.IDGenerator) Option {
	return func(o *RootOptions) {
		o.IDs = g
	}
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// NewRootCommand creates the root command for the sieve CLI.
func NewRootCommand(options ...Option) *cobra.Command {
	return newRootCommand(newRootOptions(options))
}

func newRootOptions(options []Option) *RootOptions {
	opts := &RootOptions{}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// newRootCommand binds the global flags to opts. Once PersistentPreRunE has
// run, opts holds the configuration resolved from file, environment and flags.
func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sieve",
		Short: "sieve - filter, sort and summarise tabular files",
		Long: `Load records from CSV, JSON, YAML or XML, narrow them down with typed
filters and sorts, inspect per-field statistics and save the result.

Every committed filter, sort and reset is kept in a session history that
survives between runs and can be undone step by step.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config, cmd.Flags())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load configuration", err)
			}
			opts.DB, opts.Format, opts.Verbose = cfg.DB, cfg.Format, cfg.Verbose

			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.Logger = NewLogger(opts.Verbose, cmd.ErrOrStderr())
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", config.DefaultDB, "path to the session database")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ./sieve.yaml if present)")

	// Session commands
	cmd.AddCommand(NewOpenCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewFieldsCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewUndoCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))
	cmd.AddCommand(NewUseCommand(opts))
	cmd.AddCommand(NewDropCommand(opts))

	// Stateless commands
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
