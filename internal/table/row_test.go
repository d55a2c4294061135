package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_SetKeepsFirstPosition(t *testing.T) {
	r := NewRow()
	r.Set("a", S("1"))
	r.Set("b", S("2"))
	r.Set("a", N(3))

	assert.Equal(t, []string{"a", "b"}, r.Columns())
	v, ok := r.Get("a")
	require.True(t, ok)
	assert.True(t, v.IsNumber())
	assert.Equal(t, 3.0, v.Num)
}

func TestRow_AbsentVersusEmpty(t *testing.T) {
	r := NewRow()
	r.Set("empty", S(""))

	v, ok := r.Get("empty")
	assert.True(t, ok)
	assert.Equal(t, "", v.Str)

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.False(t, r.Has("missing"))
}

func TestRow_CloneIsIndependent(t *testing.T) {
	r := NewRow()
	r.Set("a", S("1"))
	c := r.Clone()
	c.Set("b", S("2"))
	c.Set("a", S("changed"))

	assert.Equal(t, 1, r.Len())
	v, _ := r.Get("a")
	assert.Equal(t, "1", v.Str)
	assert.Equal(t, 2, c.Len())
}

func TestConcat_PreservesOrder(t *testing.T) {
	mk := func(cols []string, vals ...string) *Table {
		tbl := &Table{Columns: cols}
		for _, v := range vals {
			r := NewRow()
			r.Set(cols[0], S(v))
			tbl.Rows = append(tbl.Rows, r)
		}
		return tbl
	}
	out := Concat(mk([]string{"a", "b"}, "1", "2"), nil, mk([]string{"a", "c"}, "3", "1"))

	assert.Equal(t, []string{"a", "b", "c"}, out.Columns)
	require.Len(t, out.Rows, 4)
	var got []string
	for _, r := range out.Rows {
		v, _ := r.Get("a")
		got = append(got, v.Str)
	}
	assert.Equal(t, []string{"1", "2", "3", "1"}, got)
}

func TestTable_NilLen(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.Nil(t, tbl.Clone())
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "810.7", FormatNumber(810.70))
	assert.Equal(t, "1900", FormatNumber(1900))
	assert.Equal(t, "0.05", FormatNumber(0.05))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
	assert.Equal(t, "Infinity", FormatNumber(math.Inf(1)))
	assert.Equal(t, "-Infinity", FormatNumber(math.Inf(-1)))
	assert.Equal(t, "1e+21", FormatNumber(1e21))
	assert.Equal(t, "1.2e-07", FormatNumber(1.2e-7))
}
