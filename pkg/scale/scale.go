package scale

import (
	"math"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// Defaults match the reconstruction viewer the layouts are drawn for: 5000
// updates across a 640px canvas with 1px padding.
const (
	DefaultMaxObserved = 5000
	DefaultRangeLow    = 1
	DefaultRangeHigh   = 638
	DefaultExponent    = 10
)

// Params are the serializable settings of an [Age] scale.
type Params struct {
	MaxObserved float64 `json:"max_observed" bson:"max_observed" toml:"max_observed"`
	RangeLow    float64 `json:"range_low" bson:"range_low" toml:"range_low"`
	RangeHigh   float64 `json:"range_high" bson:"range_high" toml:"range_high"`
	Exponent    float64 `json:"exponent" bson:"exponent" toml:"exponent"`
}

// DefaultParams returns the default scale settings.
func DefaultParams() Params {
	return Params{
		MaxObserved: DefaultMaxObserved,
		RangeLow:    DefaultRangeLow,
		RangeHigh:   DefaultRangeHigh,
		Exponent:    DefaultExponent,
	}
}

// Age builds a scale from p.
func (p Params) Age() (*Age, error) {
	return NewAge(p.MaxObserved, p.RangeLow, p.RangeHigh, p.Exponent)
}

// Age is a power-law time scale. See the package documentation for the
// formula.
type Age struct {
	maxObserved float64
	low, high   float64
	exponent    float64
}

// NewAge creates a scale over [0, maxObserved] onto [low, high].
// maxObserved must be positive, low and high must differ, and exponent must
// be at least 1. Violations are INVALID_INPUT errors.
//
// A range with high < low is allowed and yields a decreasing scale.
func NewAge(maxObserved, low, high, exponent float64) (*Age, error) {
	if err := errors.ValidateTime("max observed time", maxObserved); err != nil {
		return nil, err
	}
	if maxObserved <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "max observed time must be positive, got %g", maxObserved)
	}
	if err := errors.ValidateTime("range low", low); err != nil {
		return nil, err
	}
	if err := errors.ValidateTime("range high", high); err != nil {
		return nil, err
	}
	if low == high {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty coordinate range [%g, %g]", low, high)
	}
	a := &Age{maxObserved: maxObserved, low: low, high: high}
	if err := a.SetExponent(exponent); err != nil {
		return nil, err
	}
	return a, nil
}

// Forward maps a time to its coordinate. Times outside [0, maxObserved] are
// clamped to the nearest bound.
func (a *Age) Forward(t float64) float64 {
	frac := clamp(t/a.maxObserved, 0, 1)
	return a.low + (a.high-a.low)*math.Pow(frac, a.exponent)
}

// Inverse maps a coordinate back to a time. Coordinates outside the range
// are clamped.
func (a *Age) Inverse(c float64) float64 {
	frac := clamp((c-a.low)/(a.high-a.low), 0, 1)
	return a.maxObserved * math.Pow(frac, 1/a.exponent)
}

// SetExponent replaces the curve exponent. Values below 1, NaN and
// infinities are rejected and leave the scale unchanged.
func (a *Age) SetExponent(e float64) error {
	if math.IsNaN(e) || math.IsInf(e, 0) || e < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "exponent must be a finite number >= 1, got %g", e)
	}
	a.exponent = e
	return nil
}

// Exponent returns the current exponent.
func (a *Age) Exponent() float64 { return a.exponent }

// Domain returns the time domain bounds.
func (a *Age) Domain() (lo, hi float64) { return 0, a.maxObserved }

// Range returns the coordinate range bounds.
func (a *Age) Range() (lo, hi float64) { return a.low, a.high }

// Params returns the scale's current settings.
func (a *Age) Params() Params {
	return Params{MaxObserved: a.maxObserved, RangeLow: a.low, RangeHigh: a.high, Exponent: a.exponent}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
