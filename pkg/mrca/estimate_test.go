package mrca

import (
	"testing"

	"github.com/matzehuels/phylolane/pkg/errors"
)

func TestConfigurationKeys(t *testing.T) {
	c := Configuration{Policy: "RecencyProportionalResolution", Differentia: 64, TargetBits: 4096}
	if got, want := c.Key(), "RecencyProportionalResolution644096"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
	if got := ConfigKey("RecencyProportionalResolution", 1, 64); got != "RecencyProportionalResolution164" {
		t.Errorf("ConfigKey() = %q", got)
	}
	want := "differentia=64+policy=RecencyProportionalResolution+target=4096"
	if got := c.Treatment(); got != want {
		t.Errorf("Treatment() = %q, want %q", got, want)
	}
}

func TestParseTreatment(t *testing.T) {
	tests := []struct {
		in      string
		want    Configuration
		wantErr bool
	}{
		{
			in:   "differentia=64+policy=RecencyProportionalResolution+target=4096",
			want: Configuration{Policy: "RecencyProportionalResolution", Differentia: 64, TargetBits: 4096},
		},
		{
			in:   "target=256+policy=FixedResolution+differentia=1",
			want: Configuration{Policy: "FixedResolution", Differentia: 1, TargetBits: 256},
		},
		{in: "policy=X+differentia=1", wantErr: true},
		{in: "policy=X+differentia=one+target=2", wantErr: true},
		{in: "policy=X+differentia=1+target=2+seed=3", wantErr: true},
		{in: "nonsense", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTreatment(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseTreatment(%q) error = %v, want INVALID_FORMAT", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTreatment(%q) = %+v, %v; want %+v", tt.in, got, err, tt.want)
		}
	}
}

func TestEstimateContains(t *testing.T) {
	e := Estimate{Lower: 10, Upper: 20}
	for tm, want := range map[float64]bool{9.9: false, 10: true, 15: true, 20: true, 20.1: false} {
		if got := e.Contains(tm); got != want {
			t.Errorf("Contains(%g) = %v, want %v", tm, got, want)
		}
	}
	if e.Width() != 10 {
		t.Errorf("Width() = %g", e.Width())
	}
}
