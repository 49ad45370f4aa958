package io

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/phylolane/pkg/errors"
)

// table reads a headed CSV stream with case-insensitive column lookup.
type table struct {
	r      *csv.Reader
	header []string
	cols   map[string]int
	line   int
	row    []string
}

func newTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty input: missing CSV header")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	t := &table{r: cr, header: header, cols: make(map[string]int, len(header)), line: 1}
	for i, col := range header {
		t.cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return t, nil
}

// require fails unless one of the named columns is present.
func (t *table) require(names ...string) error {
	for _, n := range names {
		if _, ok := t.cols[n]; ok {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "missing column %q (have %v)", names[0], t.header)
}

// next advances to the following row, reporting false at end of input.
func (t *table) next() (bool, error) {
	row, err := t.r.Read()
	if err == io.EOF {
		return false, nil
	}
	t.line++
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", t.line)
	}
	t.row = row
	return true, nil
}

// get returns the trimmed cell of the first present column among names.
func (t *table) get(names ...string) (string, bool) {
	for _, n := range names {
		if i, ok := t.cols[n]; ok && i < len(t.row) {
			return strings.TrimSpace(t.row[i]), true
		}
	}
	return "", false
}

func (t *table) float(name string) (float64, error) {
	s, _ := t.get(name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: column %s", t.line, name)
	}
	return v, nil
}
