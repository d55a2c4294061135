package numeric

import (
	"math"
	"strconv"
	"strings"
)

// Round rounds x to the given number of decimal places, halves toward +Inf.
// The decimal shift is done in exponent notation so Round(1.005, 2) == 1.01.
func Round(x float64, places int) float64 {
	return shifted(x, places, roundHalfUp)
}

// Floor rounds x down to the given number of decimal places.
func Floor(x float64, places int) float64 {
	return shifted(x, places, math.Floor)
}

func shifted(x float64, places int, fn func(float64) float64) float64 {
	if places == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return fn(x)
	}
	return scale(fn(scale(x, places)), -places)
}

// scale multiplies x by 10^places by rewriting its shortest decimal form.
func scale(x float64, places int) float64 {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	mant, exp := s, 0
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mant = s[:i]
		exp, _ = strconv.Atoi(s[i+1:])
	}
	f, err := strconv.ParseFloat(mant+"e"+strconv.Itoa(exp+places), 64)
	if err != nil {
		return x * math.Pow10(places)
	}
	return f
}

func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}
