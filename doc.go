// Package scratch implements an incremental scratch-off reveal mask.
//
// # Overview
//
// A masked image is uncovered as the user drags a pointer across it. Each
// drag segment is resampled into evenly spaced brush stamps, the stamps
// are recorded into a command buffer as bounded instanced draws, and the
// buffer is played back into a persistent single-channel alpha mask. A
// statistics reducer summarizes the mask as a histogram (or a counter
// pair) from which the revealed fraction and the average value follow.
//
// # Quick Start
//
//	import "github.com/gogpu/scratch"
//
//	s, err := scratch.New(800, 600, scratch.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	s.HandleEvent(scratch.Event{Kind: scratch.PointerDown, Pos: scratch.Pt(10, 10)})
//	s.HandleEvent(scratch.Event{Kind: scratch.PointerMove, Pos: scratch.Pt(120, 40)})
//	s.Frame()
//
//	data, err := s.Stats(ctx)
//	fmt.Println(data) // fill 3.1% avg 7.9
//
// # Architecture
//
// The library is organized into:
//   - Public API: Surface, Config, InputAdapter, Resample, BatchRenderer, MaskBuffer
//   - recording: command buffer, unit quad, matrices, backend registry
//   - recording/backends/raster: CPU execution of command buffers
//   - stats: reducer contract, histogram math, CPU reducers
//   - gpu: registers the compute-shader reducer ("gpu")
//
// # Coordinate System
//
// Mask coordinates have their origin at the bottom-left, x right and y up,
// one unit per texel. Pixel storage (image.Alpha) keeps row 0 at the top.
//
// # Reveal Semantics
//
// Painting only ever raises texel values; ResetMask is the only operation
// that lowers them. There is no erase brush.
package scratch
