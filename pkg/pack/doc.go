// Package pack places a card's symbols inside a circular card face.
//
// # Overview
//
// [Pack] searches for a [Placement] (position, angle, scale) per symbol such
// that every symbol footprint lies inside the card circle and no two
// footprints share an occupied pixel. No closed-form packing exists for
// arbitrary symbol shapes, so the search is randomized hill climbing:
//
//  1. Init: symbols start on a shuffled anchor grid at a small scale. If this
//     starting configuration is invalid the card cannot be packed and a
//     [PlacementError] is returned.
//  2. Refine: repeatedly pick one symbol and apply one mutation (rotate,
//     rescale or reposition, chosen by [Weights]). The mutation is committed
//     only if the new footprint is inside the circle and clear of every other
//     symbol; otherwise the previous placement is restored.
//  3. Done: the last committed layout is returned.
//
// Every committed state is valid, so the search can stop after any iteration
// ([PackContext] honours cancellation) and still return a correct layout.
//
// # Geometry
//
// The inside-circle test checks the four corners of the footprint's bounding
// rectangle, which is stricter than testing the mask itself near the edge.
// The overlap test ANDs the candidate mask with an occupancy accumulator that
// holds the union of all other accepted footprints; a footprint reaching
// outside the canvas counts as overlapping.
//
// # Concurrency
//
// A packing run owns its accumulator and its random source, so independent
// cards can be packed in parallel as long as each gets its own *rand.Rand.
// Use [NewRand] to derive reproducible per-card sources from one seed.
package pack
