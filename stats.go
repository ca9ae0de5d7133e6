package scratch

import (
	"fmt"

	"github.com/gogpu/scratch/stats"
)

// StatData is the reveal summary reported to the presentation layer.
type StatData struct {
	// FillPercent is the fraction of scanned texels that are revealed, in [0, 1].
	FillPercent float64

	// AvgVal is the mean texel value, in [0, 255].
	AvgVal float64
}

func statDataFrom(s stats.Summary) StatData {
	return StatData{FillPercent: s.FillPercent, AvgVal: s.AvgVal}
}

// String formats the data as "fill 42.0% avg 107.1".
func (d StatData) String() string {
	return fmt.Sprintf("fill %.1f%% avg %.1f", d.FillPercent*100, d.AvgVal)
}
