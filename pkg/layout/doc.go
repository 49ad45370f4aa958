// Package layout is the serializable result of laying out a lineage tree.
//
// A [Layout] lists every lineage in pre-order with its lane and the display
// coordinates of its origin and destruction times under an age scale. It is
// the format shared by the CLI output, the HTTP API, the cache and the
// document store, and it is what a renderer consumes.
//
// [Project] builds a Layout from a tree whose lanes are already allocated.
// [Layout.Rescale] changes the scale exponent and recomputes coordinates
// without touching lanes or topology, so lane identity is stable across
// rescales.
//
// Layouts round-trip through JSON with [Marshal] and [Unmarshal], and
// through BSON via the struct tags.
package layout
