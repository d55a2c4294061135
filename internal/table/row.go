package table

// Row is an ordered mapping from column name to Value. Column order is the
// order in which each name was first set.
type Row struct {
	cols []string
	vals map[string]Value
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{vals: make(map[string]Value)}
}

// Get returns the value stored under col and whether the column is present.
// An absent column is distinct from one holding an empty string.
func (r *Row) Get(col string) (Value, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Has reports whether col is present.
func (r *Row) Has(col string) bool {
	_, ok := r.vals[col]
	return ok
}

// Set stores v under col. Setting an existing column replaces its value but
// keeps its original position.
func (r *Row) Set(col string, v Value) {
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

// Columns returns the row's column names in insertion order.
func (r *Row) Columns() []string {
	out := make([]string, len(r.cols))
	copy(out, r.cols)
	return out
}

// Len returns the number of present columns.
func (r *Row) Len() int { return len(r.cols) }

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	out := &Row{
		cols: make([]string, len(r.cols)),
		vals: make(map[string]Value, len(r.vals)),
	}
	copy(out.cols, r.cols)
	for k, v := range r.vals {
		out.vals[k] = v
	}
	return out
}

// Table is an ordered sequence of rows plus the header they were parsed from.
type Table struct {
	Columns []string
	Rows    []*Row
}

// Len returns the number of rows, treating a nil table as empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Clone deep-copies the table so a run can work on its own snapshot.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]*Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// Concat appends tables in the given order. Columns are unioned in first-seen
// order; rows are neither deduplicated nor sorted. Nil tables are skipped.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	seen := make(map[string]struct{})
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out.Columns = append(out.Columns, c)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}
