package io

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// Format names an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "csv", "json", "yaml" and "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want csv, json or yaml)", s)
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeUnsupported, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Option configures record decoding.
type Option func(*options)

type options struct {
	ceiling float64
}

// WithCeiling sets the observation ceiling that replaces missing
// destruction times.
func WithCeiling(t float64) Option {
	return func(o *options) { o.ceiling = t }
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	return f, nil
}
