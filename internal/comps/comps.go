// Package comps selects comparable reference listings for a subject listing.
package comps

import (
	"github.com/sells-group/rentcomp/internal/numeric"
	"github.com/sells-group/rentcomp/internal/table"
)

// Keys names the columns used to compare listings. Subdivision and SQFT are
// preference lists: the first column present on a row is used.
type Keys struct {
	Beds        string
	Subdivision []string
	SQFT        []string
}

// DefaultKeys returns the column names used by MLS listing exports.
func DefaultKeys() Keys {
	return Keys{
		Beds:        "Beds",
		Subdivision: []string{"Legal Subdivision", "Subdivision/Neighborhood"},
		SQFT:        []string{"Above Grade Finished SQFT", "Total SQFT"},
	}
}

// First returns the value of the first column in cols that is present on row.
func First(row *table.Row, cols []string) (table.Value, bool) {
	for _, c := range cols {
		if v, ok := row.Get(c); ok {
			return v, true
		}
	}
	return table.Value{}, false
}

// Subject holds the match keys of a subject listing, already resolved.
type Subject struct {
	Beds           float64
	SQFT           float64
	Subdivision    string
	HasSQFT        bool
	HasSubdivision bool
}

// Lookup returns the first present column of a preference list.
type Lookup func(cols []string) (table.Value, bool)

// SubjectOf resolves the match keys through lookup. Absent beds and SQFT
// read as 0.
func SubjectOf(lookup Lookup, keys Keys) Subject {
	var s Subject
	v, ok := lookup(keys.SQFT)
	s.SQFT, _ = numeric.Of(v, ok, numeric.NullZero)
	s.HasSQFT = ok

	v, ok = lookup([]string{keys.Beds})
	s.Beds, _ = numeric.Of(v, ok, numeric.NullZero)

	if v, ok = lookup(keys.Subdivision); ok {
		s.Subdivision = v.String()
		s.HasSubdivision = true
	}
	return s
}

// Match returns the reference rows comparable to subject, in reference order.
// A row qualifies when its bed count equals the subject's, its subdivision
// string is identical, and its square footage lies in
// [subjectSQFT-tolerance, subjectSQFT+tolerance]. Absent beds and SQFT read as
// 0; a subject without a subdivision matches nothing.
func Match(subject *table.Row, refs *table.Table, keys Keys, tolerance float64) []*table.Row {
	if subject == nil {
		return nil
	}
	lookup := func(cols []string) (table.Value, bool) { return First(subject, cols) }
	return MatchSubject(SubjectOf(lookup, keys), refs, keys, tolerance)
}

// MatchSubject is Match for a subject whose keys were resolved by SubjectOf.
func MatchSubject(subject Subject, refs *table.Table, keys Keys, tolerance float64) []*table.Row {
	if !subject.HasSubdivision || refs.Len() == 0 {
		return nil
	}
	lo, hi := subject.SQFT-tolerance, subject.SQFT+tolerance

	var out []*table.Row
	for _, ref := range refs.Rows {
		refSub, ok := subdivision(ref, keys)
		if !ok || refSub != subject.Subdivision {
			continue
		}
		// NaN never compares equal, so unparsable bed counts drop out here.
		if bedCount(ref, keys) != subject.Beds {
			continue
		}
		// Written as a negated range check so a NaN footage is rejected.
		if s := squareFeet(ref, keys); !(s >= lo && s <= hi) {
			continue
		}
		out = append(out, ref)
	}
	return out
}

// AverageRent averages priceField over rows, rounded to cents. Absent prices
// count as 0. It returns false when rows is empty.
func AverageRent(rows []*table.Row, priceField string) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	var total float64
	for _, r := range rows {
		v, ok := r.Get(priceField)
		n, _ := numeric.Of(v, ok, numeric.NullZero)
		total += n
	}
	return numeric.Round(total/float64(len(rows)), 2), true
}

func subdivision(row *table.Row, keys Keys) (string, bool) {
	v, ok := First(row, keys.Subdivision)
	if !ok {
		return "", false
	}
	return v.String(), true
}

func bedCount(row *table.Row, keys Keys) float64 {
	v, ok := row.Get(keys.Beds)
	n, _ := numeric.Of(v, ok, numeric.NullZero)
	return n
}

func squareFeet(row *table.Row, keys Keys) float64 {
	v, ok := First(row, keys.SQFT)
	n, _ := numeric.Of(v, ok, numeric.NullZero)
	return n
}
