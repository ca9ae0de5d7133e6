// Package stats summarizes a reveal mask without reading every texel back
// to the caller.
//
// A Reducer scans the mask in 8x8 thread groups and produces a small
// summary from which the fill fraction and the average texel value are
// derived. Two strategies implement the same contract:
//
//   - Histogram: N buckets of quantized texel values (reference design)
//   - Moments: a nonzero count and a value sum (counter pair)
//
// With one bucket the histogram degenerates to a single counter.
//
// # Dispatch Geometry
//
// Only whole groups are scanned. DispatchSize floors the mask size to a
// multiple of GroupSize; the floored rectangle, anchored at the mask's
// bottom-left corner, is the denominator of every statistic.
//
// # Reducers
//
// Reducers register by name using the database/sql driver pattern:
//
//	"cpu"     histogram on a worker pool (default)
//	"counter" counter pair on a worker pool
//	"gpu"     histogram compute shader (import _ "github.com/gogpu/scratch/gpu")
//
// Example:
//
//	r, err := stats.NewReducer("cpu")
//	if err != nil { ... }
//	defer r.Close()
//	if err := r.Init(128); err != nil { ... }
//	s, err := r.Reduce(ctx, mask.Pixels())
package stats
