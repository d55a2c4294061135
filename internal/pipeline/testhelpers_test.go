package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/rentcomp/internal/table"
)

func listing(kv ...string) *table.Row {
	r := table.NewRow()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], table.S(kv[i+1]))
	}
	return r
}

func tableOf(rows ...*table.Row) *table.Table {
	t := &table.Table{Rows: rows}
	seen := map[string]bool{}
	for _, r := range rows {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				t.Columns = append(t.Columns, c)
			}
		}
	}
	return t
}

func oakwoodSubject() *table.Row {
	return listing(
		"Current Price", "$200,000",
		"Tax Annual Amount", "$2,400",
		"Beds", "3",
		"Above Grade Finished SQFT", "1500",
		"Legal Subdivision", "Oakwood",
	)
}

func oakwoodRentals() *table.Table {
	return tableOf(
		listing("Beds", "3", "Above Grade Finished SQFT", "1300", "Legal Subdivision", "Oakwood", "Current Price", "$1,800"),
		listing("Beds", "3", "Above Grade Finished SQFT", "1650", "Legal Subdivision", "Oakwood", "Current Price", "$1,900"),
		listing("Beds", "3", "Above Grade Finished SQFT", "1700", "Legal Subdivision", "Oakwood", "Current Price", "$2,000"),
		listing("Beds", "3", "Above Grade Finished SQFT", "1500", "Legal Subdivision", "Maple Ridge", "Current Price", "$3,000"),
	)
}

func mustNew(t *testing.T, policy Policy, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(policy, opts...)
	require.NoError(t, err)
	return p
}

func num(t *testing.T, r *table.Row, col string) float64 {
	t.Helper()
	v, ok := r.Get(col)
	require.True(t, ok, "column %q absent", col)
	require.True(t, v.IsNumber(), "column %q is not numeric: %q", col, v.Str)
	return v.Num
}

// recordingTracer captures every read and write in order.
type recordingTracer struct {
	events []traceEvent
}

type traceEvent struct {
	write  bool
	step   string
	column string
}

func (r *recordingTracer) Read(step, column string) {
	r.events = append(r.events, traceEvent{step: step, column: column})
}

func (r *recordingTracer) Write(step, column string) {
	r.events = append(r.events, traceEvent{write: true, step: step, column: column})
}
