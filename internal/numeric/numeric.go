// Package numeric converts currency and percentage strings into float64 values and
// rounds them the way the listing spreadsheets expect.
package numeric

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/rentcomp/internal/table"
)

// NullPolicy controls how an absent column is read by a derivation step.
type NullPolicy string

const (
	// NullPropagate reports absent inputs so the step can leave its output absent.
	NullPropagate NullPolicy = "propagate"
	// NullZero reads absent inputs as 0.
	NullZero NullPolicy = "zero"
)

// ParseNullPolicy maps a config string to a NullPolicy. Unknown values fall back
// to NullPropagate.
func ParseNullPolicy(s string) NullPolicy {
	if NullPolicy(strings.ToLower(strings.TrimSpace(s))) == NullZero {
		return NullZero
	}
	return NullPropagate
}

var currencyStripper = strings.NewReplacer("$", "", ",", "")

// ToNumber strips every "$" and "," from raw and parses the remainder as a float.
// An empty remainder is 0; anything unparsable is NaN. Only plain decimal
// notation and the literals Infinity/-Infinity are numbers: digit separators,
// "inf" spellings and hex floats are not.
func ToNumber(raw string) float64 {
	s := strings.TrimSpace(currencyStripper.Replace(raw))
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if !isDecimal(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat reports overflow as ErrRange but still returns ±Inf.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// Of normalizes a row value. Numbers pass through; strings go through ToNumber.
// When the value is absent, NullZero yields (0, true) and NullPropagate yields (0, false).
func Of(v table.Value, ok bool, policy NullPolicy) (float64, bool) {
	if !ok {
		if policy == NullZero {
			return 0, true
		}
		return 0, false
	}
	if v.IsNumber() {
		return v.Num, true
	}
	return ToNumber(v.Str), true
}

// OrDefault normalizes a row value, substituting def when it is absent.
func OrDefault(v table.Value, ok bool, def float64) float64 {
	if !ok {
		return def
	}
	n, _ := Of(v, true, NullPropagate)
	return n
}

// isDecimal reports whether s uses only sign, digit, point and exponent characters.
func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}
