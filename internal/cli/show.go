package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/sorting"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Print the records of the current session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, cmd *cobra.Command) error {
	ws, err := openWorkspace(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	current := ws.session.Current()
	if opts.Format == "json" {
		return newFormatter(opts, cmd).Success(nonNil(current))
	}
	return WriteTable(cmd.OutOrStdout(), current)
}

// FieldInfo describes one field of the current dataset.
type FieldInfo struct {
	Field      string             `json:"field"`
	Kind       dataset.Kind       `json:"kind"`
	Conditions []filter.Condition `json:"conditions"`
	Orders     []sorting.Order    `json:"orders"`
}

// DescribeFields classifies every field of ds and lists the conditions and
// sort orders offered for it.
func DescribeFields(ds dataset.Dataset) []FieldInfo {
	fields := ds.FieldUnion()
	infos := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		kind := dataset.Classify(ds, f)
		conds := filter.ConditionsFor(kind)
		if conds == nil {
			conds = []filter.Condition{}
		}
		orders := sorting.OrdersFor(kind)
		if orders == nil {
			orders = []sorting.Order{}
		}
		infos = append(infos, FieldInfo{Field: f, Kind: kind, Conditions: conds, Orders: orders})
	}
	return infos
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List fields with their kind and the filters and sorts they offer",
		Long: `List every field of the current dataset with its classified kind and the
conditions and sort orders that apply to it. Mixed and empty fields offer none.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(rootOpts, cmd)
		},
	}
	return cmd
}

func runFields(opts *RootOptions, cmd *cobra.Command) error {
	ws, err := openWorkspace(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	infos := DescribeFields(ws.session.Current())
	if opts.Format == "json" {
		return newFormatter(opts, cmd).Success(infos)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tKIND\tCONDITIONS\tORDERS")
	for _, info := range infos {
		conds := make([]string, len(info.Conditions))
		for i, c := range info.Conditions {
			conds[i] = string(c)
		}
		orders := make([]string, len(info.Orders))
		for i, o := range info.Orders {
			orders[i] = string(o)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Field, info.Kind,
			orDash(strings.Join(conds, ",")), orDash(strings.Join(orders, ",")))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
