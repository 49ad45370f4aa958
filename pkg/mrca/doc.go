// Package mrca indexes estimated most-recent-common-ancestor bounds for
// pairs of taxa.
//
// Reconstruction methods estimate when two extant taxa last shared an
// ancestor as an interval with a confidence level. An [Index] stores one
// such [Estimate] per unordered taxon pair and inference configuration and
// answers [Index.Lookup] in constant time. Each estimate is inserted under
// both orderings of its pair, so Lookup(a, b, cfg) and Lookup(b, a, cfg)
// return the same value.
//
// # Configurations
//
// A configuration key identifies the inference method that produced an
// estimate. The index treats it as an opaque string; [Configuration] builds
// the conventional key from a retention policy, differentia width and target
// bit budget.
//
// # Duplicates
//
// Two estimates for the same pair and configuration with different bounds
// make the ground truth ambiguous, so [Build] fails with a
// DUPLICATE_ESTIMATE error by default. Exact repeats are accepted. Pass
// WithDuplicatePolicy(LastWriteWins) to let later estimates replace earlier
// ones instead.
//
// # Checking against a known tree
//
// When the true phylogeny is available, [Index.Check] compares each estimate
// of a configuration with the origin time of the real MRCA and reports how
// often the interval covers it.
package mrca
