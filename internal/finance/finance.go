// Package finance implements the fixed-rate mortgage math used by the metric pipeline.
package finance

import (
	"math"

	"github.com/sells-group/rentcomp/internal/numeric"
)

// MonthlyPayment returns the amortized monthly payment, rounded to cents, for a
// purchase at price with downpayPct percent down, annualRatePct APR over years.
//
// A zero rate makes the formula 0/0 and the result is NaN; callers propagate it.
func MonthlyPayment(downpayPct, price, annualRatePct, years float64) float64 {
	i := annualRatePct / 1200
	n := years * 12
	growth := math.Pow(1+i, n)
	return numeric.Round(price*(1-downpayPct/100)*(i*growth)/(growth-1), 2)
}

// RatioPerThousand is the monthly payment on $1000 borrowed with nothing down.
func RatioPerThousand(annualRatePct, years float64) float64 {
	return MonthlyPayment(0, 1000, annualRatePct, years)
}

// Schedule summarizes the first months of a loan's amortization.
type Schedule struct {
	Payment        float64
	TotalInterest  float64
	TotalPrincipal float64
	Balance        float64
}

// Amortize steps the loan forward month by month. Each month's interest and
// principal portions are floored to cents before they are accumulated.
func Amortize(downpayPct, price, annualRatePct, years float64, months int) Schedule {
	rate := annualRatePct / 1200
	s := Schedule{
		Payment: MonthlyPayment(downpayPct, price, annualRatePct, years),
		Balance: numeric.Floor(price*(1-downpayPct/100), 2),
	}
	for m := 0; m < months; m++ {
		interest := numeric.Floor(s.Balance*rate, 2)
		principal := numeric.Floor(s.Payment-interest, 2)
		s.TotalInterest += interest
		s.TotalPrincipal += principal
		s.Balance -= principal
	}
	return s
}

// PrincipalPaid returns the principal retired over the first months payments.
func PrincipalPaid(downpayPct, price, annualRatePct, years float64, months int) float64 {
	return Amortize(downpayPct, price, annualRatePct, years, months).TotalPrincipal
}
