// Package lane assigns display lanes to the lineages of a tree.
//
// # Overview
//
// A lane is the integer vertical slot a lineage is drawn in. Lineages that
// are alive at the same time within one scope must never share a lane, and
// small absolute lane numbers are preferred so the drawing stays compact and
// centered on lane 0.
//
// # Algorithm
//
// [Allocate] walks the tree depth-first in pre-order, threading a [Scope]
// (lane -> destruction time of its occupant) down the recursion:
//
//  1. Evict every lane whose occupant was destroyed at or before the current
//     node's origin.
//  2. Take the first lane in the fixed preference order 0, 1, -1, 2, -2, ...
//     that is not occupied.
//  3. Record the lane on the node and occupy it until the node's destruction.
//  4. A node with exactly one child passes a copy of its scope through, so an
//     unbranching chain shares one lane pool and never resets mid-chain.
//  5. At a branch point the inherited scope ends. The children take lanes
//     side by side in discovery order: a child skips every lane held by an
//     earlier sibling whose lifetime overlaps its own. Each child's subtree
//     then continues from a fresh scope that holds only the child itself, so
//     sibling subtrees never observe each other's allocations.
//
// The preference order is part of the output contract: the sign order
// (positive before negative) decides which side of lane 0 a lineage lands
// on, and renderers rely on it for reproducible pictures.
//
// # Capacity
//
// The default preference list spans lanes -10..10 (21 slots). When a node
// finds every slot occupied, allocation fails with a LANE_EXHAUSTION error
// naming the node instead of leaving the lane unset. Use [WithRadius] to
// widen the list.
//
// # Idempotence
//
// Lanes are computed into a side table and committed only when the whole
// tree succeeds, so a failed run leaves previous assignments untouched and a
// repeated run overwrites every lane with the same value.
package lane
