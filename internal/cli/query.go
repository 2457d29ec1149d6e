package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gridstore/internal/filter"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Where string
}

// QueryResult is the query command's payload.
type QueryResult struct {
	Total   int          `json:"total"`
	Matched int          `json:"matched"`
	Rows    []RowPayload `json:"rows"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <dataset>",
		Short: "Filter a dataset and show matches with their original positions",
		Long: `Load a YAML dataset, apply a filter expression and print the
matching rows. Each match shows both its position in the filtered view
and its position in the full dataset.

Expressions combine criteria with "and":
  gridstore query rows.yaml --where 'status == "open" and total > 10'
  gridstore query rows.yaml --where 'name contains widget'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "filter expression (criteria joined with 'and')")

	return cmd
}

func runQuery(opts *QueryOptions, path string, cmd *cobra.Command) error {
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

	if opts.Where != "" {
		criteria, err := filter.ParseExpression(opts.Where)
		if err != nil {
			_ = formatter.Error(ErrCodeCriteria, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid filter expression", err)
		}
		if err := store.SetFilterCriteria(criteria); err != nil {
			_ = formatter.Error(ErrCodeCriteria, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid filter criteria", err)
		}
	}

	all := store.All()
	result := QueryResult{Total: len(all), Matched: store.Count(store.HasFilter())}
	for i := 0; i < result.Matched; i++ {
		orig, ok := store.MapFilteredIndexToOriginal(i)
		if !ok {
			break
		}
		result.Rows = append(result.Rows, rowPayload(i, orig, all[orig]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "matched %d of %d row(s)\n", result.Matched, result.Total)
	for _, p := range result.Rows {
		fmt.Fprintf(&b, "  [%d -> %d] %s\n", p.Position, p.OriginalPosition, renderCells(all[p.OriginalPosition]))
	}
	return formatter.SuccessText(b.String(), result)
}

// outputLoadError reports a dataset load failure and maps it to a
// command-error exit.
func outputLoadError(formatter *OutputFormatter, err error) error {
	if loadErr, ok := err.(*LoadError); ok {
		_ = formatter.Error(loadErr.Code, loadErr.Message, loadErr.Path)
		return WrapExitError(ExitCommandError, "loading dataset", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "loading dataset", err)
}
