package scratch

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Brush shapes used when Config.BrushTexture is empty.
const (
	BrushSquare = "square"
	BrushRound  = "round"
)

// Limits enforced by Config.Validate.
const (
	MaxBrushSize     = 200
	MaxPaintStep     = 20
	MaxHistogramBins = 255
	MaxBatchCapacity = 1023
)

// Duration is a time.Duration that reads and writes as a Go duration
// string ("100ms") in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds the tunable parameters of a Surface.
// The zero value is not valid; start from DefaultConfig.
type Config struct {
	// BrushTexture is an image file used as the brush. Empty selects a
	// generated brush of BrushShape.
	BrushTexture string `toml:"brush_texture"`

	// BrushShape is BrushSquare (solid white) or BrushRound.
	BrushShape string `toml:"brush_shape"`

	// BrushHardness is the fraction of a round brush's radius painted at
	// full alpha; the rest fades out linearly.
	BrushHardness float64 `toml:"brush_hardness"`

	// BrushSize is the stamp edge length in mask texels.
	BrushSize float64 `toml:"brush_size"`

	// PaintStep is the distance between consecutive stamps.
	PaintStep float64 `toml:"paint_step"`

	// MoveThreshold is the minimum pointer displacement that marks a
	// stroke dirty on move events.
	MoveThreshold float64 `toml:"move_threshold"`

	// BrushAlpha scales the brush texture alpha.
	BrushAlpha float64 `toml:"brush_alpha"`

	// BufferScale downsamples the mask for statistics. 1 scans the mask itself.
	BufferScale float64 `toml:"buffer_scale"`

	// HistogramBins is the bucket count of the statistics histogram.
	HistogramBins int `toml:"histogram_bins"`

	// InstanceBatchCapacity bounds the instances of one draw call.
	InstanceBatchCapacity int `toml:"instance_batch_capacity"`

	// StatsBackend names a registered statistics reducer.
	StatsBackend string `toml:"stats_backend"`

	// StatsInterval is the default period of PollStats.
	StatsInterval Duration `toml:"stats_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BrushShape:            BrushSquare,
		BrushHardness:         1,
		BrushSize:             50,
		PaintStep:             5,
		MoveThreshold:         2,
		BrushAlpha:            1,
		BufferScale:           1,
		HistogramBins:         128,
		InstanceBatchCapacity: 200,
		StatsBackend:          "cpu",
		StatsInterval:         Duration(100 * time.Millisecond),
	}
}

// Validate checks every field and returns the first violation as a
// *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.BrushShape != BrushSquare && c.BrushShape != BrushRound:
		return &ConfigError{Field: "BrushShape", Value: c.BrushShape, Reason: fmt.Sprintf("must be %q or %q", BrushSquare, BrushRound)}
	case !inRange(c.BrushHardness, 0, 1):
		return &ConfigError{Field: "BrushHardness", Value: c.BrushHardness, Reason: "must be in [0, 1]"}
	case !inRange(c.BrushSize, 0, MaxBrushSize) || c.BrushSize == 0:
		return &ConfigError{Field: "BrushSize", Value: c.BrushSize, Reason: fmt.Sprintf("must be in (0, %d]", MaxBrushSize)}
	case !inRange(c.PaintStep, 0, MaxPaintStep) || c.PaintStep == 0:
		return &ConfigError{Field: "PaintStep", Value: c.PaintStep, Reason: fmt.Sprintf("must be in (0, %d]", MaxPaintStep)}
	case c.PaintStep > c.BrushSize:
		return &ConfigError{Field: "PaintStep", Value: c.PaintStep, Reason: "must not exceed BrushSize"}
	case math.IsNaN(c.MoveThreshold) || c.MoveThreshold < 0:
		return &ConfigError{Field: "MoveThreshold", Value: c.MoveThreshold, Reason: "must be >= 0"}
	case !inRange(c.BrushAlpha, 0, 1):
		return &ConfigError{Field: "BrushAlpha", Value: c.BrushAlpha, Reason: "must be in [0, 1]"}
	case !inRange(c.BufferScale, 0, 1) || c.BufferScale == 0:
		return &ConfigError{Field: "BufferScale", Value: c.BufferScale, Reason: "must be in (0, 1]"}
	case c.HistogramBins < 1 || c.HistogramBins > MaxHistogramBins:
		return &ConfigError{Field: "HistogramBins", Value: c.HistogramBins, Reason: fmt.Sprintf("must be in [1, %d]", MaxHistogramBins)}
	case c.InstanceBatchCapacity < 1 || c.InstanceBatchCapacity > MaxBatchCapacity:
		return &ConfigError{Field: "InstanceBatchCapacity", Value: c.InstanceBatchCapacity, Reason: fmt.Sprintf("must be in [1, %d]", MaxBatchCapacity)}
	case c.StatsBackend == "":
		return &ConfigError{Field: "StatsBackend", Value: c.StatsBackend, Reason: "must name a reducer"}
	case c.StatsInterval <= 0:
		return &ConfigError{Field: "StatsInterval", Value: time.Duration(c.StatsInterval), Reason: "must be positive"}
	}
	return nil
}

// inRange reports lo <= v <= hi; NaN is never in range.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// ParseConfig decodes TOML from r on top of DefaultConfig and validates
// the result. Unknown keys are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("scratch: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file. See ParseConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-provided
	if err != nil {
		return Config{}, fmt.Errorf("scratch: load config: %w", err)
	}
	return ParseConfig(bytes.NewReader(data))
}

// Marshal encodes the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
