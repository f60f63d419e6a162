// Package regions implements the spatially-aware stages of the pixel-art
// pipeline: color blocking, small-region cleanup and majority smoothing.
//
// These stages only run when color blocking is enabled. They operate on an
// already downscaled imaging.Buffer and modify it in place.
//
// # Stages
//
//   - BlockColors: quantization that blends color similarity with how
//     strongly each palette color dominates the surrounding cells
//   - CleanRegions: flood-fill connected same-color regions and merge the
//     undersized ones into their dominant neighbour
//   - Smooth: iterative 4-neighbour majority vote over interior pixels
//
// # Connectivity
//
// Regions use 4-connectivity (up, down, left, right). Diagonal neighbours
// never join two regions.
//
// # Concurrency
//
// BlockColors smooths its per-color weight fields concurrently and scores
// pixels concurrently, with a hard barrier between the two phases. Smooth
// processes rows of one iteration concurrently against a frozen snapshot.
// Region discovery is sequential. Results never depend on scheduling.
package regions
