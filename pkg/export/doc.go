// Package export converts layouts into Graphviz DOT so they can be handed to
// external graph tooling.
//
// # DOT Format
//
// [ToDOT] pins every node at its computed position: the x coordinate is the
// projected origin time and the y coordinate is the lane multiplied by
// [Options.LaneSpacing]. Edges run from parent to child. The output is meant
// for engines that honor fixed positions, such as `neato -n`.
//
//	dot := export.ToDOT(l, export.Options{Labels: true})
//	if err := export.Validate(dot); err != nil {
//	    return err
//	}
//
// # Dependencies
//
// [Validate] and [XDOT] use [github.com/goccy/go-graphviz], which embeds
// Graphviz, so no system install is needed.
package export
