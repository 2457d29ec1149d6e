package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gridstore/internal/smartops"
)

// CleanupOptions holds flags for the cleanup command.
type CleanupOptions struct {
	*RootOptions
	MinRows       int
	KeepLastEmpty bool
}

// CleanupReport is the cleanup command's payload.
type CleanupReport struct {
	EmptyRowsRemoved int          `json:"empty_rows_removed"`
	EmptyRowsCreated int          `json:"empty_rows_created"`
	FinalCount       int          `json:"final_count"`
	Rows             []RowPayload `json:"rows"`
}

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cleanup <dataset>",
		Short: "Normalize a dataset's empty rows",
		Long: `Load a YAML dataset and run the row-management cleanup against it:
purge empty rows, backfill to the minimum row count and guarantee a
trailing empty row. Prints the normalized grid.

Example:
  gridstore cleanup rows.yaml --min-rows 5 --keep-last-empty`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.MinRows, "min-rows", 0, "minimum row count to enforce (0 disables)")
	cmd.Flags().BoolVar(&opts.KeepLastEmpty, "keep-last-empty", false, "guarantee a trailing empty row")

	return cmd
}

func runCleanup(opts *CleanupOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, ds, err := newStoreFromDataset(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("loaded %d row(s) from %s", len(ds.Rows), path)

	eng, err := smartops.New(store)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "creating engine", err)
	}

	cfg := smartops.Config{
		MinimumRows:         opts.MinRows,
		AlwaysKeepLastEmpty: opts.KeepLastEmpty,
	}
	result, err := eng.EnsureMinRowsAndLastEmpty(cmd.Context(), cfg, nil)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "cleanup failed", err)
	}

	report := CleanupReport{
		EmptyRowsRemoved: result.EmptyRowsRemoved,
		EmptyRowsCreated: result.EmptyRowsCreated,
		FinalCount:       result.FinalCount,
	}
	all := store.All()
	for i, row := range all {
		report.Rows = append(report.Rows, rowPayload(i, i, row))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "purged %d empty row(s), created %d, final count %d\n",
		report.EmptyRowsRemoved, report.EmptyRowsCreated, report.FinalCount)
	for i, row := range all {
		fmt.Fprintf(&b, "  [%d] %s\n", i, renderCells(row))
	}
	return formatter.SuccessText(b.String(), report)
}
