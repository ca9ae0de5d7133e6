// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu registers the GPU histogram reducer for mask statistics.
//
// Import this package to make the "gpu" reducer available to
// stats.NewReducer and therefore to scratch.Config.StatsBackend:
//
//	import _ "github.com/gogpu/scratch/gpu" // enable GPU statistics
//
// The reducer opens its own Vulkan device on Init. If no device is
// available, Init fails and scratch.New reports a resource error; use the
// "cpu" reducer on such machines.
//
// Hosts that already own a GPU device (e.g., gogpu) can share it:
//
//	r, err := gpu.NewReducerWithProvider(app)
//	s, err := scratch.New(w, h, cfg, scratch.WithReducer(r))
package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"

	gpuimpl "github.com/gogpu/scratch/internal/gpu"
	"github.com/gogpu/scratch/stats"
)

// Name is the registry name of the GPU reducer.
const Name = "gpu"

// ErrNilProvider is returned by NewReducerWithProvider for a nil provider.
var ErrNilProvider = errors.New("gpu-stats: nil device provider")

func init() {
	stats.Register(Name, func() stats.Reducer {
		return gpuimpl.NewHistogramReducer()
	})
}

// NewReducerWithProvider creates an uninitialized GPU reducer that runs on
// the provider's device instead of opening its own. The provider must also
// expose HAL handles (HalDevice() any, HalQueue() any).
//
// The device is not destroyed when the reducer is closed.
func NewReducerWithProvider(provider gpucontext.DeviceProvider) (stats.Reducer, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	r := gpuimpl.NewHistogramReducer()
	r.SetLogger(stats.Logger())
	if err := r.SetDeviceProvider(provider); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}
