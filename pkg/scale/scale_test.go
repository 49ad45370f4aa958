package scale

import (
	"math"
	"testing"

	"github.com/matzehuels/phylolane/pkg/errors"
)

const eps = 1e-9

func mustAge(t *testing.T, maxObserved, low, high, exponent float64) *Age {
	t.Helper()
	a, err := NewAge(maxObserved, low, high, exponent)
	if err != nil {
		t.Fatalf("NewAge: %v", err)
	}
	return a
}

func TestNewAgeValidation(t *testing.T) {
	tests := []struct {
		name                  string
		max, low, high, expon float64
		wantErr               bool
	}{
		{"valid", 5000, 1, 638, 10, false},
		{"inverted range", 100, 50, 0, 1, false},
		{"zero max", 0, 0, 1, 1, true},
		{"negative max", -1, 0, 1, 1, true},
		{"nan max", math.NaN(), 0, 1, 1, true},
		{"empty range", 100, 5, 5, 1, true},
		{"infinite range", 100, 0, math.Inf(1), 1, true},
		{"exponent below one", 100, 0, 1, 0.5, true},
		{"nan exponent", 100, 0, 1, math.NaN(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAge(tt.max, tt.low, tt.high, tt.expon)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAge() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestForward(t *testing.T) {
	tests := []struct {
		name     string
		exponent float64
		t        float64
		want     float64
	}{
		{"origin", 2, 0, 0},
		{"ceiling", 2, 5000, 100},
		{"linear midpoint", 1, 2500, 50},
		{"square", 2, 2500, 25},
		{"quarter squared", 2, 1250, 6.25},
		{"below domain", 2, -10, 0},
		{"above domain", 2, 9000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustAge(t, 5000, 0, 100, tt.exponent)
			if got := a.Forward(tt.t); math.Abs(got-tt.want) > eps {
				t.Errorf("Forward(%g) = %g, want %g", tt.t, got, tt.want)
			}
		})
	}
}

func TestEarlyTimeCompressed(t *testing.T) {
	a, err := DefaultParams().Age()
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := a.Range()
	share := func(tm float64) float64 { return (a.Forward(tm) - lo) / (hi - lo) }

	if got := share(DefaultMaxObserved / 2); got >= 0.5 {
		t.Errorf("first half of the domain takes %.3f of the axis, want under 0.5", got)
	}
	if got := share(DefaultMaxObserved / 2); math.Abs(got-math.Pow(0.5, DefaultExponent)) > eps {
		t.Errorf("share at half the domain = %g, want 0.5^%d", got, DefaultExponent)
	}
	if got := share(DefaultMaxObserved * 0.9); got <= 0.3 {
		t.Errorf("last tenth of the domain should take most of the axis, t=0.9max maps to %.3f", got)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	a := mustAge(t, 5000, 0, 638, 3)
	for _, tm := range []float64{0, 1, 10, 250, 1234.5, 4999, 5000} {
		if got := a.Inverse(a.Forward(tm)); math.Abs(got-tm) > 1e-6 {
			t.Errorf("Inverse(Forward(%g)) = %g", tm, got)
		}
	}
	if got := a.Inverse(-100); got != 0 {
		t.Errorf("Inverse below range = %g, want 0", got)
	}
	if got := a.Inverse(1e6); math.Abs(got-5000) > eps {
		t.Errorf("Inverse above range = %g, want 5000", got)
	}
}

func TestSetExponentKeepsMonotonicity(t *testing.T) {
	a := mustAge(t, 5000, 0, 1000, 1)
	for _, e := range []float64{1, 2, 3.5, 10, 40} {
		if err := a.SetExponent(e); err != nil {
			t.Fatalf("SetExponent(%g): %v", e, err)
		}
		prev := math.Inf(-1)
		for tm := 0.0; tm <= 5000; tm += 125 {
			c := a.Forward(tm)
			if c < prev {
				t.Fatalf("exponent %g: Forward(%g) = %g decreases from %g", e, tm, c, prev)
			}
			prev = c
		}
	}
}

func TestSetExponentRejectsInvalid(t *testing.T) {
	a := mustAge(t, 100, 0, 1, 3)
	for _, e := range []float64{0, 0.99, -2, math.Inf(1), math.NaN()} {
		if err := a.SetExponent(e); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("SetExponent(%g) error = %v, want INVALID_INPUT", e, err)
		}
	}
	if a.Exponent() != 3 {
		t.Errorf("Exponent() = %g after rejected updates, want 3", a.Exponent())
	}
}

func TestInvertedRangeDecreases(t *testing.T) {
	a := mustAge(t, 100, 100, 0, 1)
	if a.Forward(25) <= a.Forward(75) {
		t.Errorf("Forward should decrease on an inverted range")
	}
	if got := a.Inverse(a.Forward(25)); math.Abs(got-25) > eps {
		t.Errorf("Inverse(Forward(25)) = %g", got)
	}
}

func TestParamsRoundTrip(t *testing.T) {
	p := DefaultParams()
	a, err := p.Age()
	if err != nil {
		t.Fatalf("DefaultParams().Age(): %v", err)
	}
	if got := a.Params(); got != p {
		t.Errorf("Params() = %+v, want %+v", got, p)
	}
	if lo, hi := a.Domain(); lo != 0 || hi != DefaultMaxObserved {
		t.Errorf("Domain() = (%g, %g)", lo, hi)
	}
	if lo, hi := a.Range(); lo != DefaultRangeLow || hi != DefaultRangeHigh {
		t.Errorf("Range() = (%g, %g)", lo, hi)
	}
}
