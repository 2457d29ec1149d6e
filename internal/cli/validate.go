package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gridstore/internal/filter"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Where string
}

// ValidationReport is the validate command's payload.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	RowCount int      `json:"row_count,omitempty"`
	Columns  []string `json:"columns,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Check a dataset and optional filter expression for well-formedness",
		Long: `Check that a YAML dataset parses, that every cell is a scalar, and -
when --where is given - that the filter expression is valid against the
supported operators. Exits 1 on an invalid dataset or expression.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "filter expression to validate alongside the dataset")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ds, err := LoadDataset(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeNotFound {
			// A missing path is a command error, not a validation verdict.
			_ = formatter.Error(loadErr.Code, loadErr.Message, loadErr.Path)
			return WrapExitError(ExitCommandError, "loading dataset", err)
		}
		return outputValidationFailure(formatter, err)
	}

	if opts.Where != "" {
		criteria, err := filter.ParseExpression(opts.Where)
		if err != nil {
			return outputValidationFailure(formatter, err)
		}
		if err := filter.ValidateAll(criteria); err != nil {
			return outputValidationFailure(formatter, err)
		}
	}

	report := ValidationReport{
		Valid:    true,
		RowCount: len(ds.Rows),
		Columns:  columnUnion(ds),
	}
	text := fmt.Sprintf("dataset valid: %d row(s), columns [%s]\n",
		report.RowCount, strings.Join(report.Columns, " "))
	return formatter.SuccessText(text, report)
}

func outputValidationFailure(formatter *OutputFormatter, err error) error {
	report := ValidationReport{Valid: false, Errors: []string{err.Error()}}
	if formatter.Format == "json" {
		if encErr := formatter.Success(report); encErr != nil {
			return encErr
		}
	} else {
		_ = formatter.Error(validationErrorCode(err), err.Error(), nil)
	}
	return WrapExitError(ExitFailure, "validation failed", err)
}

func validationErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeCriteria
}

// columnUnion collects the distinct columns across all rows: the
// dataset's explicit order first, remaining columns sorted.
func columnUnion(ds *Dataset) []string {
	seen := make(map[string]struct{}, len(ds.Columns))
	var cols []string
	for _, col := range ds.Columns {
		seen[col] = struct{}{}
		cols = append(cols, col)
	}
	var extra []string
	for _, row := range ds.Rows {
		for _, col := range row.Columns() {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				extra = append(extra, col)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}
