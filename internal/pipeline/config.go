package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/sells-group/rentcomp/internal/finance"
)

var validate = validator.New()

// Configuration holds the financing and matching settings for one run. It is
// passed by value into every step and never read from shared state.
type Configuration struct {
	DownpayPercent         float64 `validate:"gte=0,lte=100"`
	InterestRate           float64 `validate:"gte=0"` // annual, percent
	MortgagePeriod         float64 `validate:"gt=0"`  // years
	AppreciationRate       float64 // fraction of price per year
	AdjustedSQFT           float64 `validate:"gte=0"` // comparability window half-width
	DepreciationMultiplier float64 `validate:"gte=0"`
}

// DefaultConfiguration returns the settings the calculator ships with.
func DefaultConfiguration() Configuration {
	return Configuration{
		DownpayPercent:         20,
		InterestRate:           4.5,
		MortgagePeriod:         30,
		AppreciationRate:       0.03,
		AdjustedSQFT:           200,
		DepreciationMultiplier: 1,
	}
}

// Validate checks value ranges. A zero interest rate is allowed; its payment is NaN.
func (c Configuration) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return eris.Wrap(err, "pipeline: validate configuration")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be %s %s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return eris.Errorf("pipeline: invalid configuration: %s", strings.Join(msgs, "; "))
}

// RatioPerThousand is the display-only monthly payment per $1000 borrowed at the
// configured rate and term.
func (c Configuration) RatioPerThousand() float64 {
	return finance.RatioPerThousand(c.InterestRate, c.MortgagePeriod)
}
