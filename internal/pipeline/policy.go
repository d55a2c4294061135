package pipeline

import (
	"github.com/sells-group/rentcomp/internal/comps"
	"github.com/sells-group/rentcomp/internal/numeric"
)

// Raw column names read from listing exports.
const (
	ColCurrentPrice     = "Current Price"
	ColTaxAnnualAmount  = "Tax Annual Amount"
	ColCondoFee         = "Condo/Coop Fee"
	ColHOAFee           = "HOA Fee"
	ColTaxAssessedValue = "Tax Assessed Value"
)

// Derived column names, in the order the pipeline writes them.
const (
	ColPI                 = "pi"
	ColMonthlyTax         = "monthlyTax"
	ColEscrow             = "hoaCondoFeeMonthlyTax"
	ColTotalCost          = "totalCost"
	ColRentalIncome       = "monthlyRentalAvgIncome"
	ColReturnRate         = "monthlyReturnRate"
	ColNominalAmount      = "nominalAmount"
	ColRatio              = "ratio"
	ColDepreciation       = "depreciation"
	ColAppreciation       = "appreciation"
	ColTotalReturnPerYear = "totalReturnPerYear"
	ColMonthlyTotalReturn = "monthlyTotalReturn"
	ColYearOneReturnRatio = "firstYearTotalReturnOverCurrentPrice"
)

// NoMatching is written to ColRentalIncome when no reference listing is comparable.
const NoMatching = "No matching"

// DepreciationYears is the residential straight-line depreciation period.
const DepreciationYears = 27.5

// Policy selects the column names and null handling a pipeline is built with.
// It is fixed at construction; per-run settings live in Configuration.
type Policy struct {
	Keys       comps.Keys
	PriceField string
	NullPolicy numeric.NullPolicy
}

// DefaultPolicy propagates absent inputs and matches on the MLS column names.
func DefaultPolicy() Policy {
	return Policy{
		Keys:       comps.DefaultKeys(),
		PriceField: ColCurrentPrice,
		NullPolicy: numeric.NullPropagate,
	}
}
