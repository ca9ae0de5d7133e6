// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

// Package gpu is empty in nogpu builds: no "gpu" reducer is registered.
package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/scratch/stats"
)

// Name is the registry name of the GPU reducer.
const Name = "gpu"

// ErrNilProvider is returned by NewReducerWithProvider for a nil provider.
var ErrNilProvider = errors.New("gpu-stats: nil device provider")

// ErrUnavailable is returned by NewReducerWithProvider in nogpu builds.
var ErrUnavailable = errors.New("gpu-stats: built with nogpu")

// NewReducerWithProvider always fails in nogpu builds.
func NewReducerWithProvider(provider gpucontext.DeviceProvider) (stats.Reducer, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return nil, ErrUnavailable
}
