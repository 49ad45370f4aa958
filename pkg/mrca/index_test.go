package mrca

import (
	"slices"
	"testing"

	"github.com/matzehuels/phylolane/pkg/errors"
)

const cfg = "RecencyProportionalResolution164"

func est(a, b string, lower, upper float64) Estimate {
	return Estimate{TaxonA: a, TaxonB: b, Configuration: cfg, Lower: lower, Upper: upper, Confidence: 0.95}
}

func TestLookupIsSymmetric(t *testing.T) {
	estimates := []Estimate{
		est("1", "2", 10, 20),
		est("1", "3", 5, 15),
		est("4", "2", 0, 40),
		{TaxonA: "1", TaxonB: "2", Configuration: "other", Lower: 1, Upper: 2, Confidence: 0.5},
	}
	idx, err := Build(estimates)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, e := range estimates {
		ab, ok1 := idx.Lookup(e.TaxonA, e.TaxonB, e.Configuration)
		ba, ok2 := idx.Lookup(e.TaxonB, e.TaxonA, e.Configuration)
		if !ok1 || !ok2 {
			t.Fatalf("Lookup(%s, %s, %s) missing: %v %v", e.TaxonA, e.TaxonB, e.Configuration, ok1, ok2)
		}
		if ab != ba {
			t.Errorf("asymmetric lookup: %+v vs %+v", ab, ba)
		}
		if ab != e {
			t.Errorf("Lookup = %+v, want %+v", ab, e)
		}
	}
}

func TestLookupNotFound(t *testing.T) {
	idx, err := Build([]Estimate{est("1", "2", 0, 1)})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tests := []struct{ a, b, cfg string }{
		{"1", "3", cfg},
		{"1", "2", "unknown"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if _, ok := idx.Lookup(tt.a, tt.b, tt.cfg); ok {
			t.Errorf("Lookup(%q, %q, %q) found an estimate", tt.a, tt.b, tt.cfg)
		}
	}
}

func TestBuildDuplicates(t *testing.T) {
	tests := []struct {
		name      string
		estimates []Estimate
		opts      []Option
		wantCode  errors.Code
		wantLower float64
	}{
		{
			name:      "identical repeat accepted",
			estimates: []Estimate{est("1", "2", 10, 20), est("1", "2", 10, 20)},
			wantLower: 10,
		},
		{
			name:      "identical reversed repeat accepted",
			estimates: []Estimate{est("1", "2", 10, 20), est("2", "1", 10, 20)},
			wantLower: 10,
		},
		{
			name:      "conflict rejected by default",
			estimates: []Estimate{est("1", "2", 10, 20), est("1", "2", 11, 20)},
			wantCode:  errors.ErrCodeDuplicateEstimate,
		},
		{
			name:      "reversed conflict rejected",
			estimates: []Estimate{est("1", "2", 10, 20), est("2", "1", 10, 25)},
			wantCode:  errors.ErrCodeDuplicateEstimate,
		},
		{
			name:      "last write wins",
			estimates: []Estimate{est("1", "2", 10, 20), est("2", "1", 12, 18)},
			opts:      []Option{WithDuplicatePolicy(LastWriteWins)},
			wantLower: 12,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Build(tt.estimates, tt.opts...)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Build() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if idx.Len() != 1 {
				t.Errorf("Len() = %d, want 1", idx.Len())
			}
			for _, order := range [][2]string{{"1", "2"}, {"2", "1"}} {
				got, ok := idx.Lookup(order[0], order[1], cfg)
				if !ok || got.Lower != tt.wantLower {
					t.Errorf("Lookup(%s, %s) = %+v, %v; want lower %g", order[0], order[1], got, ok, tt.wantLower)
				}
			}
			if n := len(idx.Pairs(cfg)); n != 1 {
				t.Errorf("Pairs() has %d entries, want 1", n)
			}
		})
	}
}

func TestBuildRejectsInvalidEstimates(t *testing.T) {
	tests := []struct {
		name string
		e    Estimate
	}{
		{"empty taxon", Estimate{TaxonA: "", TaxonB: "2", Configuration: cfg, Upper: 1}},
		{"empty configuration", Estimate{TaxonA: "1", TaxonB: "2", Upper: 1}},
		{"inverted bounds", Estimate{TaxonA: "1", TaxonB: "2", Configuration: cfg, Lower: 5, Upper: 1}},
		{"confidence above one", Estimate{TaxonA: "1", TaxonB: "2", Configuration: cfg, Upper: 1, Confidence: 95}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build([]Estimate{tt.e}); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Build() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestConfigurationsAndPairs(t *testing.T) {
	idx, err := Build([]Estimate{
		est("b", "a", 1, 2),
		est("a", "c", 1, 2),
		est("c", "c", 0, 0),
		{TaxonA: "a", TaxonB: "b", Configuration: "Alpha", Lower: 1, Upper: 2},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := idx.Configurations(); !slices.Equal(got, []string{"Alpha", cfg}) {
		t.Errorf("Configurations() = %v", got)
	}
	if idx.Len() != 4 {
		t.Errorf("Len() = %d, want 4", idx.Len())
	}
	var pairs []string
	for _, e := range idx.Pairs(cfg) {
		pairs = append(pairs, e.TaxonA+e.TaxonB)
	}
	if !slices.Equal(pairs, []string{"ac", "ba", "cc"}) {
		t.Errorf("Pairs() = %v, want [ac ba cc]", pairs)
	}
}

func TestDuplicatePolicyParse(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"", Reject, false},
		{"reject", Reject, false},
		{"Last-Write-Wins", LastWriteWins, false},
		{"lww", LastWriteWins, false},
		{"average", Reject, true},
	}
	for _, tt := range tests {
		got, err := ParseDuplicatePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDuplicatePolicy(%q) = %v, %v", tt.in, got, err)
		}
		if err == nil {
			if back, _ := ParseDuplicatePolicy(got.String()); back != got {
				t.Errorf("String() of %v does not parse back", got)
			}
		}
	}
}
