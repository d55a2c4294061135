// Package table holds the row/table model for listing files and the
// delimited-text parser and writer used to move tables in and out of the CLI.
package table

import (
	"math"
	"strconv"
)

// Kind tags the contents of a Value.
type Kind uint8

const (
	// KindString is raw text from a file or a sentinel written by a step.
	KindString Kind = iota
	// KindNumber is a derived numeric value. It may be NaN or ±Inf.
	KindNumber
)

// Value is a single cell: either a string or a float64.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// S returns a string Value.
func S(s string) Value { return Value{Kind: KindString, Str: s} }

// N returns a numeric Value.
func N(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// IsFinite reports whether v holds a number that is neither NaN nor infinite.
func (v Value) IsFinite() bool {
	return v.Kind == KindNumber && !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0)
}

// String renders v for export. Numbers use the shortest round-trip form, switching
// to exponent notation outside [1e-6, 1e21) and spelling NaN/Infinity the way
// spreadsheet exports from the web tool did.
func (v Value) String() string {
	if v.Kind == KindString {
		return v.Str
	}
	return FormatNumber(v.Num)
}

// FormatNumber renders f using the rules described on Value.String.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
