package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name     string
		scenario Scenario
		wantErr  string
	}{
		{
			name:     "no name",
			scenario: Scenario{Steps: []Step{{Cleanup: true}}},
			wantErr:  "no name",
		},
		{
			name:     "no steps",
			scenario: Scenario{Name: "s"},
			wantErr:  "no steps",
		},
		{
			name: "step with two actions",
			scenario: Scenario{Name: "s", Steps: []Step{
				{Cleanup: true, AutoExpand: true},
			}},
			wantErr: "exactly one action",
		},
		{
			name: "unknown assertion type",
			scenario: Scenario{
				Name:       "s",
				Steps:      []Step{{Cleanup: true}},
				Assertions: []Assertion{{Type: "bogus"}},
			},
			wantErr: "unknown assertion type",
		},
		{
			name: "cell assertion without column",
			scenario: Scenario{
				Name:       "s",
				Steps:      []Step{{Cleanup: true}},
				Assertions: []Assertion{{Type: "cell", Row: 0}},
			},
			wantErr: "needs a column",
		},
		{
			name: "valid",
			scenario: Scenario{
				Name:       "s",
				Steps:      []Step{{AutoExpand: true}},
				Assertions: []Assertion{{Type: "trailing_empty"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scenario.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_TraceAndAssertions(t *testing.T) {
	sc := &Scenario{
		Name:   "inline",
		Config: ConfigSpec{MinimumRows: 1, AlwaysKeepLastEmpty: true},
		Steps: []Step{
			{Add: []RowSpec{{"x": "A"}}},
		},
		Assertions: []Assertion{
			{Type: "count", Count: 2},
			{Type: "trailing_empty"},
			{Type: "min_rows", Count: 1},
			{Type: "cell", Row: 0, Column: "x", Value: "A"},
		},
	}

	out, err := Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, out.Trace, 1)
	assert.Contains(t, out.Trace[0], "added=1")

	assert.NoError(t, out.Verify())
}

func TestRun_DeletePositionOutOfRange(t *testing.T) {
	sc := &Scenario{
		Name:    "bad-position",
		Initial: []RowSpec{{"x": "A"}},
		Steps:   []Step{{Delete: []int{5}}},
	}

	_, err := Run(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestVerify_ReportsAssertionError(t *testing.T) {
	sc := &Scenario{
		Name:       "failing",
		Steps:      []Step{{Add: []RowSpec{{"x": "A"}}}},
		Assertions: []Assertion{{Type: "count", Count: 99}},
	}

	out, err := Run(context.Background(), sc)
	require.NoError(t, err)

	verr := out.Verify()
	require.Error(t, verr)

	var ae *AssertionError
	require.True(t, errors.As(verr, &ae))
	assert.Equal(t, "count", ae.Type)
	assert.Equal(t, 99, ae.Expected)
}

func TestBuildRows_ColumnOrderIsSorted(t *testing.T) {
	rows, err := buildRows([]RowSpec{{"b": 2, "a": 1, "c": 3}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0].Columns())
}

func TestBuildRows_RejectsNonScalar(t *testing.T) {
	_, err := buildRows([]RowSpec{{"x": []any{1, 2}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "x"`)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does-not-exist.yaml")
	assert.Error(t, err)
}
