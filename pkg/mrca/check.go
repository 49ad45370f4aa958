package mrca

import (
	"github.com/matzehuels/phylolane/pkg/lineage"
)

// Miss is an estimate whose interval does not cover the true MRCA time.
type Miss struct {
	Estimate Estimate `json:"estimate"`
	MRCA     string   `json:"mrca"`
	TrueTime float64  `json:"true_time"`
}

// Report summarizes how well one configuration's estimates agree with a
// known tree.
type Report struct {
	Configuration string `json:"configuration"`
	Checked       int    `json:"checked"`
	Covered       int    `json:"covered"`
	// Unmatched counts estimates naming a taxon the tree does not contain.
	Unmatched int    `json:"unmatched"`
	Misses    []Miss `json:"misses,omitempty"`
}

// Coverage returns the fraction of checked estimates that cover the true
// MRCA time, or 0 when nothing was checked.
func (r Report) Coverage() float64 {
	if r.Checked == 0 {
		return 0
	}
	return float64(r.Covered) / float64(r.Checked)
}

// Check compares every estimate under cfg with tree. The true MRCA time of a
// pair is the origin time of their most recent common ancestor.
func (idx *Index) Check(tree *lineage.Tree, cfg string) Report {
	r := Report{Configuration: cfg}
	for _, e := range idx.Pairs(cfg) {
		anc, err := tree.MRCA(e.TaxonA, e.TaxonB)
		if err != nil {
			r.Unmatched++
			continue
		}
		r.Checked++
		if e.Contains(anc.Origin) {
			r.Covered++
			continue
		}
		r.Misses = append(r.Misses, Miss{Estimate: e, MRCA: anc.ID, TrueTime: anc.Origin})
	}
	return r
}
