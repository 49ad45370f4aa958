package lineage

// Record is one row of the flat taxon table.
type Record struct {
	ID          string  `json:"id" yaml:"id" bson:"id"`
	ParentID    string  `json:"parent_id,omitempty" yaml:"parent_id,omitempty" bson:"parent_id,omitempty"` // Empty marks the root
	Origin      float64 `json:"origin_time" yaml:"origin_time" bson:"origin_time"`
	Destruction float64 `json:"destruction_time" yaml:"destruction_time" bson:"destruction_time"`

	// Label is an optional display name. Sorting falls back to ID when empty.
	Label string `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	// Treatment tags records that belong to one reconstruction configuration.
	Treatment string `json:"treatment,omitempty" yaml:"treatment,omitempty" bson:"treatment,omitempty"`
}

// IsRoot reports whether the record has no parent.
func (r Record) IsRoot() bool { return r.ParentID == "" }

// DisplayLabel returns the label if set, otherwise the ID.
func (r Record) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// IsExtant reports whether the lineage was still alive at the observation
// ceiling.
func (r Record) IsExtant(ceiling float64) bool { return r.Destruction >= ceiling }

// GroupByTreatment splits records by their Treatment tag, preserving input
// order within each group. The returned keys are in first-seen order.
func GroupByTreatment(records []Record) (keys []string, groups map[string][]Record) {
	groups = make(map[string][]Record)
	for _, r := range records {
		if _, ok := groups[r.Treatment]; !ok {
			keys = append(keys, r.Treatment)
		}
		groups[r.Treatment] = append(groups[r.Treatment], r)
	}
	return keys, groups
}
