package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/gridstore/internal/cell"
)

// Snapshot renders the outcome as a stable text document: the step
// trace followed by the final grid, one line per row with the row's
// identity and its cells in column order. Blank cells render as an
// empty value.
func (o *Outcome) Snapshot() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", o.Scenario.Name)
	for _, line := range o.Trace {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	rows := o.Store.All()
	fmt.Fprintf(&b, "grid (%d rows):\n", len(rows))
	for i, row := range rows {
		fmt.Fprintf(&b, "  [%d] %s", i, row.ID)
		if row.Checked {
			b.WriteString(" (checked)")
		}
		for _, col := range row.Columns() {
			fmt.Fprintf(&b, " %s=%s", col, cell.Format(row.Get(col)))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// RunWithGolden executes the scenario, verifies its assertions and
// compares the snapshot against the golden file named after the
// scenario. Regenerate with -update.
func RunWithGolden(t *testing.T, sc *Scenario) {
	t.Helper()

	out, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("running scenario: %v", err)
	}
	if err := out.Verify(); err != nil {
		t.Fatalf("verifying scenario: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, out.Snapshot())
}
