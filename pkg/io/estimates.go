package io

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/mrca"
)

var estimateColumns = []string{"from_id", "to_id", "configuration", "lower_bound", "upper_bound", "confidence"}

// ReadEstimates decodes pairwise estimates from r. Bounds are not checked
// here; [mrca.Build] validates them.
func ReadEstimates(r io.Reader, f Format) ([]mrca.Estimate, error) {
	switch f {
	case FormatCSV:
		return readEstimatesCSV(r)
	case FormatJSON:
		var out []mrca.Estimate
		if err := json.NewDecoder(r).Decode(&out); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode estimates")
		}
		return out, nil
	case FormatYAML:
		var out []mrca.Estimate
		if err := yaml.NewDecoder(r).Decode(&out); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode estimates")
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

// ImportEstimates reads estimates from a file, choosing the decoder by
// extension.
func ImportEstimates(path string) ([]mrca.Estimate, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	out, err := ReadEstimates(file, f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return out, nil
}

func readEstimatesCSV(r io.Reader) ([]mrca.Estimate, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	for _, c := range estimateColumns {
		if err := t.require(c); err != nil {
			return nil, err
		}
	}

	var out []mrca.Estimate
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		var e mrca.Estimate
		e.TaxonA, _ = t.get("from_id")
		e.TaxonB, _ = t.get("to_id")
		e.Configuration, _ = t.get("configuration")
		if e.Lower, err = t.float("lower_bound"); err != nil {
			return nil, err
		}
		if e.Upper, err = t.float("upper_bound"); err != nil {
			return nil, err
		}
		if e.Confidence, err = t.float("confidence"); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}
