package io

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/phylolane/pkg/errors"
	"github.com/matzehuels/phylolane/pkg/lineage"
	"github.com/matzehuels/phylolane/pkg/scale"
)

// recordDoc is the JSON/YAML shape of a record. Times are pointers so a
// missing destruction time can be told apart from zero.
type recordDoc struct {
	ID          string   `json:"id" yaml:"id"`
	ParentID    string   `json:"parent_id" yaml:"parent_id"`
	Origin      *float64 `json:"origin_time" yaml:"origin_time"`
	Destruction *float64 `json:"destruction_time" yaml:"destruction_time"`
	Label       string   `json:"label" yaml:"label"`
	Treatment   string   `json:"treatment" yaml:"treatment"`
}

// ReadRecords decodes taxon records from r. Missing destruction times become
// the ceiling, which defaults to [scale.DefaultMaxObserved].
func ReadRecords(r io.Reader, f Format, opts ...Option) ([]lineage.Record, error) {
	o := options{ceiling: scale.DefaultMaxObserved}
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case FormatCSV:
		return readRecordsCSV(r, o)
	case FormatJSON:
		var docs []recordDoc
		if err := json.NewDecoder(r).Decode(&docs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
		}
		return fromDocs(docs, o)
	case FormatYAML:
		var docs []recordDoc
		if err := yaml.NewDecoder(r).Decode(&docs); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode records")
		}
		return fromDocs(docs, o)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
}

// ImportRecords reads records from a file, choosing the decoder by
// extension.
func ImportRecords(path string, opts ...Option) ([]lineage.Record, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := ReadRecords(file, f, opts...)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return records, nil
}

func readRecordsCSV(r io.Reader, o options) ([]lineage.Record, error) {
	t, err := newTable(r)
	if err != nil {
		return nil, err
	}
	for _, cols := range [][]string{{"id"}, {"ancestor_list", "parent_id"}, {"origin_time"}} {
		if err := t.require(cols...); err != nil {
			return nil, err
		}
	}

	var out []lineage.Record
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}

		rec := lineage.Record{}
		rec.ID, _ = t.get("id")
		if anc, ok := t.get("ancestor_list"); ok {
			if rec.ParentID, err = parseAncestorList(anc); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", t.line)
			}
		} else {
			rec.ParentID, _ = t.get("parent_id")
		}
		if rec.Origin, err = t.float("origin_time"); err != nil {
			return nil, err
		}
		if err := errors.ValidateTime("origin_time", rec.Origin); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", t.line)
		}

		rec.Destruction = o.ceiling
		if s, _ := t.get("destruction_time"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: column destruction_time", t.line)
			}
			if !math.IsNaN(v) {
				rec.Destruction = v
			}
		}
		rec.Label, _ = t.get("name", "label")
		rec.Treatment, _ = t.get("treatment")
		out = append(out, rec)
	}
}

// parseAncestorList extracts the parent from an ancestor list such as "[12]"
// or "['12', '7']". "[NONE]", "[None]" and "[]" denote the root.
func parseAncestorList(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", errors.New(errors.ErrCodeInvalidFormat, "ancestor_list %q is not a list", s)
	}
	first, _, _ := strings.Cut(s[1:len(s)-1], ",")
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if strings.EqualFold(first, "none") {
		return "", nil
	}
	return first, nil
}

func fromDocs(docs []recordDoc, o options) ([]lineage.Record, error) {
	out := make([]lineage.Record, 0, len(docs))
	for i, d := range docs {
		if d.Origin == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "record %d (%q): missing origin_time", i, d.ID)
		}
		rec := lineage.Record{
			ID:          d.ID,
			ParentID:    d.ParentID,
			Origin:      *d.Origin,
			Destruction: o.ceiling,
			Label:       d.Label,
			Treatment:   d.Treatment,
		}
		if d.Destruction != nil && !math.IsNaN(*d.Destruction) {
			rec.Destruction = *d.Destruction
		}
		out = append(out, rec)
	}
	return out, nil
}
