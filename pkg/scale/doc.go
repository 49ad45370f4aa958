// Package scale maps lineage times onto a display axis.
//
// An [Age] scale sends the time domain [0, maxObserved] onto the coordinate
// range [low, high] along a power-law curve:
//
//	c = low + (high - low) * (t / maxObserved)^exponent
//
// An exponent above 1 compresses early time toward low and gives recent
// time most of the axis; 1 is linear. The exponent is at least 1 and may be
// changed in place with
// [Age.SetExponent]. Changing it moves coordinates only; tree shape and lane
// assignments never depend on the scale, so a layout can be rescaled without
// rebuilding the tree.
//
// [Age.Inverse] undoes [Age.Forward] and is what a renderer uses to place
// axis ticks after a rescale. Times outside the domain are clamped, as are
// coordinates outside the range.
//
// An Age is not safe for concurrent mutation. Share [Params] and build one
// scale per goroutine instead.
package scale
