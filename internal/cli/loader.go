package cli

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/rowstore"
)

// Error codes used in CLI output.
const (
	ErrCodeGeneric  = "E001" // Generic/unknown error
	ErrCodeParse    = "E002" // Dataset did not parse as YAML
	ErrCodeNoRows   = "E003" // Dataset has no rows
	ErrCodeBadCell  = "E004" // A cell holds a non-scalar value
	ErrCodeNotFound = "E005" // Path not found
	ErrCodeCriteria = "E006" // Filter expression rejected
)

// LoadError represents an error that occurred during dataset loading.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// datasetDoc is the on-disk dataset shape: an optional explicit column
// order plus the rows, each a flat column -> scalar mapping.
type datasetDoc struct {
	Columns []string         `yaml:"columns,omitempty"`
	Rows    []map[string]any `yaml:"rows"`
}

// Dataset is a loaded dataset ready to seed a store.
type Dataset struct {
	Columns []string
	Rows    []*cell.Row
}

// LoadDataset reads a YAML dataset file into rows.
//
// Column order within a row follows the dataset's explicit columns list
// when given; columns not listed there are appended in sorted order so
// loading is deterministic.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "dataset not found", Path: path}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: path}
	}

	var doc datasetDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path}
	}
	if len(doc.Rows) == 0 {
		return nil, &LoadError{Code: ErrCodeNoRows, Message: "dataset has no rows", Path: path}
	}

	listed := make(map[string]int, len(doc.Columns))
	for i, col := range doc.Columns {
		listed[col] = i
	}

	ds := &Dataset{Columns: doc.Columns}
	for i, spec := range doc.Rows {
		row := cell.NewRow()
		for _, col := range orderedColumns(spec, listed) {
			v, convErr := cell.FromAny(spec[col])
			if convErr != nil {
				return nil, &LoadError{
					Code:    ErrCodeBadCell,
					Message: fmt.Sprintf("row %d column %q: %v", i, col, convErr),
					Path:    path,
				}
			}
			row.Set(col, v)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// orderedColumns returns the row's columns: listed ones first in their
// listed order, the rest sorted.
func orderedColumns(spec map[string]any, listed map[string]int) []string {
	cols := make([]string, 0, len(spec))
	for col := range spec {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool {
		li, iListed := listed[cols[i]]
		lj, jListed := listed[cols[j]]
		switch {
		case iListed && jListed:
			return li < lj
		case iListed:
			return true
		case jListed:
			return false
		default:
			return cols[i] < cols[j]
		}
	})
	return cols
}

// newStoreFromDataset loads a dataset and seeds a fresh store with it.
func newStoreFromDataset(path string) (*rowstore.Store, *Dataset, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, nil, err
	}
	store := rowstore.New()
	store.AppendRange(ds.Rows)
	return store, ds, nil
}
