package io

import (
	"strings"
	"testing"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/mrca"
)

func TestReadEstimates(t *testing.T) {
	want := mrca.Estimate{
		TaxonA: "7", TaxonB: "12", Configuration: "RecencyProportionalResolution164",
		Lower: 3900, Upper: 4100, Confidence: 0.95,
	}
	tests := []struct {
		name   string
		format Format
		in     string
	}{
		{
			name:   "csv",
			format: FormatCSV,
			in: "from_id,to_id,configuration,lower_bound,upper_bound,confidence\n" +
				"7,12,RecencyProportionalResolution164,3900,4100,0.95\n",
		},
		{
			name:   "json",
			format: FormatJSON,
			in: `[{"from_id": "7", "to_id": "12", "configuration": "RecencyProportionalResolution164",
				"lower_bound": 3900, "upper_bound": 4100, "confidence": 0.95}]`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			in: `- from_id: "7"
  to_id: "12"
  configuration: RecencyProportionalResolution164
  lower_bound: 3900
  upper_bound: 4100
  confidence: 0.95
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadEstimates(strings.NewReader(tt.in), tt.format)
			if err != nil {
				t.Fatalf("ReadEstimates: %v", err)
			}
			if len(got) != 1 || got[0] != want {
				t.Errorf("estimates = %+v, want [%+v]", got, want)
			}
		})
	}
}

func TestReadEstimatesCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing confidence column", "from_id,to_id,configuration,lower_bound,upper_bound\n1,2,c,0,1\n"},
		{"bad bound", "from_id,to_id,configuration,lower_bound,upper_bound,confidence\n1,2,c,low,1,0.9\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadEstimates(strings.NewReader(tt.in), FormatCSV); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}
