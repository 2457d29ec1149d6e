package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/gridstore/internal/cell"
)

// RowPayload is the JSON shape of one row in command output.
type RowPayload struct {
	Position         int            `json:"position"`
	OriginalPosition int            `json:"original_position"`
	ID               string         `json:"id"`
	Checked          bool           `json:"checked,omitempty"`
	Cells            map[string]any `json:"cells"`
}

func rowPayload(pos, orig int, row *cell.Row) RowPayload {
	cells := make(map[string]any, len(row.Columns()))
	for _, col := range row.Columns() {
		cells[col] = cell.ToAny(row.Get(col))
	}
	return RowPayload{
		Position:         pos,
		OriginalPosition: orig,
		ID:               string(row.ID),
		Checked:          row.Checked,
		Cells:            cells,
	}
}

// renderCells renders a row's cells in column order: "x=A y=1".
// Blank cells render with an empty value.
func renderCells(row *cell.Row) string {
	parts := make([]string, 0, len(row.Columns()))
	for _, col := range row.Columns() {
		parts = append(parts, fmt.Sprintf("%s=%s", col, cell.Format(row.Get(col))))
	}
	return strings.Join(parts, " ")
}
