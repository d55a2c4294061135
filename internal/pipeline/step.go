package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/rentcomp/internal/comps"
	"github.com/sells-group/rentcomp/internal/numeric"
	"github.com/sells-group/rentcomp/internal/table"
)

// Tracer observes every column a step reads or writes. It is meant for tests
// and debugging; a nil Tracer costs nothing.
type Tracer interface {
	Read(step, column string)
	Write(step, column string)
}

// ApplyFunc computes one derived column. Configuration and the reference table
// are passed on every call.
type ApplyFunc func(cfg Configuration, refs *table.Table, c *Cursor)

// Step is one derivation: it reads the listed columns and writes exactly one.
type Step struct {
	Name   string
	Reads  []string
	Writes string
	Apply  ApplyFunc
}

// Cursor gives a step access to the row being derived.
type Cursor struct {
	row    *table.Row
	step   string
	policy numeric.NullPolicy
	tracer Tracer
}

// Get reads a column.
func (c *Cursor) Get(col string) (table.Value, bool) {
	if c.tracer != nil {
		c.tracer.Read(c.step, col)
	}
	return c.row.Get(col)
}

// First reads the first present column from cols.
func (c *Cursor) First(cols []string) (table.Value, bool) {
	for _, col := range cols {
		if v, ok := c.Get(col); ok {
			return v, true
		}
	}
	return table.Value{}, false
}

// Num reads a column as a number under the pipeline's null policy. A string
// that is not a number (including the no-match sentinel) is reported absent
// under NullPropagate and NaN under NullZero.
func (c *Cursor) Num(col string) (float64, bool) {
	v, ok := c.Get(col)
	if ok && v.Kind == table.KindString && c.policy == numeric.NullPropagate && v.Str == NoMatching {
		return 0, false
	}
	return numeric.Of(v, ok, c.policy)
}

// NumOr reads a column as a number, using def when it is absent.
func (c *Cursor) NumOr(col string, def float64) float64 {
	v, ok := c.Get(col)
	return numeric.OrDefault(v, ok, def)
}

// Set writes a numeric result.
func (c *Cursor) Set(col string, f float64) {
	c.SetValue(col, table.N(f))
}

// SetValue writes an arbitrary result.
func (c *Cursor) SetValue(col string, v table.Value) {
	if c.tracer != nil {
		c.tracer.Write(c.step, col)
	}
	c.row.Set(col, v)
}

// validateOrder rejects step lists where a derived column is read before the
// step that writes it, or written twice.
func validateOrder(steps []Step) error {
	derived := make(map[string]string, len(steps))
	for _, s := range steps {
		if s.Writes == "" {
			return eris.Errorf("pipeline: step %q writes no column", s.Name)
		}
		if prev, ok := derived[s.Writes]; ok {
			return eris.Errorf("pipeline: column %q written by both %q and %q", s.Writes, prev, s.Name)
		}
		derived[s.Writes] = s.Name
	}

	written := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		for _, r := range s.Reads {
			if _, isDerived := derived[r]; !isDerived {
				continue
			}
			if _, ok := written[r]; !ok {
				return eris.Errorf("pipeline: step %q reads %q before %q writes it", s.Name, r, derived[r])
			}
		}
		written[s.Writes] = struct{}{}
	}
	return nil
}

// defaultSteps builds the derivation chain. Column preferences come from p;
// everything else arrives through ApplyFunc arguments.
func defaultSteps(p Policy) []Step {
	price := p.PriceField
	matchReads := append(append(append([]string{}, p.Keys.SQFT...), p.Keys.Beds), p.Keys.Subdivision...)

	return []Step{
		{
			Name:   "financingCost",
			Reads:  []string{price},
			Writes: ColPI,
			Apply: func(cfg Configuration, _ *table.Table, c *Cursor) {
				pr, ok := c.Num(price)
				if !ok {
					return
				}
				// MonthlyPayment rounds to cents.
				c.Set(ColPI, monthlyPayment(cfg, pr))
			},
		},
		{
			Name:   "monthlyTax",
			Reads:  []string{ColTaxAnnualAmount},
			Writes: ColMonthlyTax,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				annual, ok := c.Num(ColTaxAnnualAmount)
				if !ok {
					return
				}
				c.Set(ColMonthlyTax, numeric.Round(annual/12, 2))
			},
		},
		{
			Name:   "escrowCost",
			Reads:  []string{ColMonthlyTax, ColCondoFee, ColHOAFee},
			Writes: ColEscrow,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				c.Set(ColEscrow, c.NumOr(ColMonthlyTax, 0)+c.NumOr(ColCondoFee, 0)+c.NumOr(ColHOAFee, 0))
			},
		},
		{
			Name:   "totalCost",
			Reads:  []string{ColPI, ColEscrow},
			Writes: ColTotalCost,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				pi, ok := c.Num(ColPI)
				if !ok {
					return
				}
				c.Set(ColTotalCost, numeric.Round(pi+c.NumOr(ColEscrow, 0), 0))
			},
		},
		{
			Name:   "rentalAvgIncome",
			Reads:  matchReads,
			Writes: ColRentalIncome,
			Apply: func(cfg Configuration, refs *table.Table, c *Cursor) {
				subject := comps.SubjectOf(c.First, p.Keys)
				if !subject.HasSQFT && p.NullPolicy == numeric.NullPropagate {
					return
				}

				matched := comps.MatchSubject(subject, refs, p.Keys, cfg.AdjustedSQFT)
				avg, ok := comps.AverageRent(matched, price)
				if !ok {
					c.SetValue(ColRentalIncome, table.S(NoMatching))
					return
				}
				c.Set(ColRentalIncome, avg)
			},
		},
		{
			Name:   "returnRate",
			Reads:  []string{ColRentalIncome, ColTotalCost},
			Writes: ColReturnRate,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				income, ok := c.Num(ColRentalIncome)
				if !ok {
					return
				}
				total, ok := c.Num(ColTotalCost)
				if !ok {
					return
				}
				c.Set(ColReturnRate, numeric.Round(income/total, 2))
			},
		},
		{
			Name:   "nominalAmount",
			Reads:  []string{ColRentalIncome, ColTotalCost},
			Writes: ColNominalAmount,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				income, ok := c.Num(ColRentalIncome)
				if !ok {
					return
				}
				total, ok := c.Num(ColTotalCost)
				if !ok {
					return
				}
				c.Set(ColNominalAmount, numeric.Round(income-total, 2))
			},
		},
		{
			Name:   "taxRatio",
			Reads:  []string{ColTaxAssessedValue, price},
			Writes: ColRatio,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				assessed := c.NumOr(ColTaxAssessedValue, 0)
				c.Set(ColRatio, numeric.Round(assessed/c.NumOr(price, 1), 2))
			},
		},
		{
			Name:   "depreciation",
			Reads:  []string{price},
			Writes: ColDepreciation,
			Apply: func(cfg Configuration, _ *table.Table, c *Cursor) {
				pr, ok := c.Num(price)
				if !ok {
					return
				}
				c.Set(ColDepreciation, numeric.Round(pr/DepreciationYears*cfg.DepreciationMultiplier, 2))
			},
		},
		{
			Name:   "appreciation",
			Reads:  []string{price},
			Writes: ColAppreciation,
			Apply: func(cfg Configuration, _ *table.Table, c *Cursor) {
				pr, ok := c.Num(price)
				if !ok {
					return
				}
				c.Set(ColAppreciation, numeric.Round(pr*cfg.AppreciationRate, 2))
			},
		},
		{
			Name:   "totalReturnPerYear",
			Reads:  []string{price, ColNominalAmount, ColAppreciation, ColDepreciation},
			Writes: ColTotalReturnPerYear,
			Apply: func(cfg Configuration, _ *table.Table, c *Cursor) {
				pr, ok := c.Num(price)
				if !ok {
					return
				}
				var parts [3]float64
				for i, col := range []string{ColNominalAmount, ColAppreciation, ColDepreciation} {
					if parts[i], ok = c.Num(col); !ok {
						return
					}
				}
				principal := principalPaidFirstYear(cfg, pr)
				c.Set(ColTotalReturnPerYear, principal+parts[0]*12+parts[1]+parts[2])
			},
		},
		{
			Name:   "monthlyTotalReturn",
			Reads:  []string{ColTotalReturnPerYear},
			Writes: ColMonthlyTotalReturn,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				yearly, ok := c.Num(ColTotalReturnPerYear)
				if !ok {
					return
				}
				c.Set(ColMonthlyTotalReturn, yearly/12)
			},
		},
		{
			Name:   "yearOneReturnRatio",
			Reads:  []string{ColTotalReturnPerYear, price},
			Writes: ColYearOneReturnRatio,
			Apply: func(_ Configuration, _ *table.Table, c *Cursor) {
				yearly, ok := c.Num(ColTotalReturnPerYear)
				if !ok {
					return
				}
				pr, ok := c.Num(price)
				if !ok {
					return
				}
				c.Set(ColYearOneReturnRatio, yearly/pr)
			},
		},
	}
}
