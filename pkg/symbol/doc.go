// Package symbol loads card symbols and derives their pixel footprints.
//
// A [Symbol] is one illustrative icon, identified by its index in a [Pool].
// Pools are built once per run, either from a directory of index-prefixed PNG
// files with [LoadDir] or from in-memory images with [NewPool], and are
// read-only afterwards so they can be shared between goroutines.
//
// # Footprints
//
// [Transform] scales a symbol (Lanczos) and then rotates it counter-clockwise
// with an expanding bounding box. [NewFootprint] thresholds the alpha channel
// of the transformed image into a boolean occupancy [Mask] anchored at a
// canvas position. Both are pure functions of their inputs, so the renderer
// can recompute the exact pixels the packer validated.
//
// A symbol that is fully transparent produces an empty footprint. Empty
// footprints pass every overlap test trivially; callers should treat them as
// degenerate input (see [Footprint.Empty]).
package symbol
