package cell

// RowID is an opaque token identifying a row independent of its position.
//
// IDs are assigned once at row creation, never reassigned, and never
// reused after deletion. Their string form is ordered by creation time
// (see Generator), so sorting rows by RowID reproduces insertion order.
type RowID string

// Row is one grid row: an ordered mapping from column name to a Value,
// plus the reserved identity token and the grid checkbox state.
//
// The identity and the Checked flag are row metadata, not columns: they
// never appear in Columns and never affect emptiness.
type Row struct {
	// ID is the reserved identity field. Empty until the row is first
	// stored; the store assigns it exactly once.
	ID RowID

	// Checked is the grid checkbox state for the row.
	Checked bool

	columns []string
	cells   map[string]Value
}

// NewRow creates an empty row with no columns.
func NewRow() *Row {
	return &Row{cells: make(map[string]Value)}
}

// NewRowFromColumns creates a row with the given columns, all Null.
func NewRowFromColumns(columns []string) *Row {
	r := NewRow()
	for _, col := range columns {
		r.Set(col, Null{})
	}
	return r
}

// Columns returns the column names in insertion order.
// The returned slice is a copy.
func (r *Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Get returns the value for a column. Missing columns read as Null.
func (r *Row) Get(column string) Value {
	if v, ok := r.cells[column]; ok {
		return v
	}
	return Null{}
}

// Has reports whether the column exists on this row.
func (r *Row) Has(column string) bool {
	_, ok := r.cells[column]
	return ok
}

// Set stores a value for a column, appending the column to the order on
// first use. A nil value is stored as Null.
func (r *Row) Set(column string, v Value) {
	if r.cells == nil {
		r.cells = make(map[string]Value)
	}
	if v == nil {
		v = Null{}
	}
	if _, ok := r.cells[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.cells[column] = v
}

// IsEmpty reports whether every cell is blank (Null or whitespace text).
// A row with no columns is empty. Identity and Checked are ignored.
func (r *Row) IsEmpty() bool {
	for _, col := range r.columns {
		if !IsBlank(r.cells[col]) {
			return false
		}
	}
	return true
}

// BlankContents sets every cell to Null in place, keeping the column
// set, the identity, and the Checked flag.
func (r *Row) BlankContents() {
	for _, col := range r.columns {
		r.cells[col] = Null{}
	}
}

// Clone returns a deep copy of the row. Values are immutable, so the
// cell map is copied shallowly per entry.
func (r *Row) Clone() *Row {
	out := &Row{
		ID:      r.ID,
		Checked: r.Checked,
		columns: make([]string, len(r.columns)),
		cells:   make(map[string]Value, len(r.cells)),
	}
	copy(out.columns, r.columns)
	for k, v := range r.cells {
		out.cells[k] = v
	}
	return out
}
