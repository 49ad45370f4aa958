// Package io loads taxon records and pairwise MRCA estimates from CSV, JSON
// and YAML.
//
// # Taxon records
//
// CSV input uses the column names of the phylogeny exports the layouts are
// drawn from. Column names are matched case-insensitively:
//
//	id,ancestor_list,origin_time,destruction_time,name,Treatment
//	1,[NONE],0,,root,
//	2,[1],2,8,,
//	3,['1'],3,nan,,
//
//   - id: taxon identifier (required)
//   - ancestor_list: "[NONE]", "[None]" or "[]" for the root, otherwise a
//     list whose first element is the parent ID. A plain parent_id column is
//     accepted instead.
//   - origin_time: required number
//   - destruction_time: a number, or empty/NaN for a lineage that is still
//     alive. Such values are replaced with the observation ceiling set by
//     [WithCeiling].
//   - name: optional display label
//   - Treatment: optional reconstruction configuration tag
//
// JSON and YAML input is a list of objects with the [lineage.Record] field
// names (id, parent_id, origin_time, destruction_time, label, treatment). A
// missing or null destruction_time is also mapped to the ceiling.
//
// # Estimates
//
// Estimate CSV files carry the columns from_id, to_id, configuration,
// lower_bound, upper_bound and confidence. JSON and YAML use the same names.
//
// # Formats
//
// [ImportRecords] and [ImportEstimates] pick the decoder from the file
// extension; [ReadRecords] and [ReadEstimates] take an explicit [Format].
// Decoding errors carry the INVALID_FORMAT code and name the offending line
// or entry. None of the readers validate tree structure; that is left to
// [lineage.Build].
package io
