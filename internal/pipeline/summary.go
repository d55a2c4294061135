package pipeline

import (
	"github.com/sells-group/rentcomp/internal/numeric"
	"github.com/sells-group/rentcomp/internal/table"
)

// Summary describes a finished run.
type Summary struct {
	Rows              int     `json:"rows"`
	Matched           int     `json:"matched"`
	NoMatch           int     `json:"no_match"`
	MissingIncome     int     `json:"missing_income"`
	NonFinite         int     `json:"non_finite"` // rows whose year-one ratio is NaN or infinite
	MeanYearOneReturn float64 `json:"mean_year_one_return"`
}

// Summarize counts rent-estimate outcomes and averages the finite year-one
// return ratios of a result table.
func Summarize(result *table.Table) Summary {
	var s Summary
	if result == nil {
		return s
	}
	s.Rows = len(result.Rows)

	var total float64
	var finite int
	for _, r := range result.Rows {
		switch v, ok := r.Get(ColRentalIncome); {
		case !ok:
			s.MissingIncome++
		case v.IsNumber():
			s.Matched++
		default:
			s.NoMatch++
		}

		v, ok := r.Get(ColYearOneReturnRatio)
		if !ok {
			continue
		}
		if !v.IsFinite() {
			s.NonFinite++
			continue
		}
		total += v.Num
		finite++
	}
	if finite > 0 {
		s.MeanYearOneReturn = numeric.Round(total/float64(finite), 4)
	}
	return s
}
