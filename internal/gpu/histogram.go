// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu implements the mask histogram reduction with wgpu/hal
// compute shaders.
package gpu

import (
	"context"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/scratch/stats"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

//go:embed shaders/histogram.wgsl
var histogramShaderSource string

const (
	// fenceTimeout bounds a single reduction when ctx has no earlier deadline.
	fenceTimeout = 5 * time.Second

	// clearGroupSize is the workgroup size of the clear_bins entry point.
	clearGroupSize = 64

	// paramsSize is the size of the Params uniform in bytes.
	paramsSize = 16
)

// ErrNoAdapter is returned by Init when no GPU adapter is found.
var ErrNoAdapter = errors.New("gpu-stats: no GPU adapter found")

// HistogramReducer computes the mask histogram on the GPU. It implements
// stats.HistogramSource.
//
// Each Reduce uploads the dispatch rectangle of the mask, runs a clear pass
// and a histogram pass in one command buffer, and reads back only the N
// bins. Every device object is released exactly once by Close.
type HistogramReducer struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader        hal.ShaderModule
	bindLayout    hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	clearPipeline hal.ComputePipeline
	histPipeline  hal.ComputePipeline

	paramsBuf  hal.Buffer
	binsBuf    hal.Buffer
	stagingBuf hal.Buffer
	maskBuf    hal.Buffer
	maskSize   uint64
	bindGroup  hal.BindGroup

	bins           int
	last           stats.Histogram
	closed         bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var _ stats.HistogramSource = (*HistogramReducer)(nil)

// NewHistogramReducer creates an uninitialized GPU reducer.
func NewHistogramReducer() *HistogramReducer {
	return &HistogramReducer{}
}

// SetLogger sets the logger used by the GPU package.
func (r *HistogramReducer) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Init opens a device (unless a shared one was provided), builds both
// compute pipelines and allocates the bins buffers.
func (r *HistogramReducer) Init(bins int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return stats.ErrClosed
	}
	if bins < 1 || bins > stats.MaxBins {
		return stats.ErrInvalidBins
	}
	if r.device == nil {
		if err := r.initDevice(); err != nil {
			slogger().Warn("gpu-stats: GPU init failed", "err", err)
			return err
		}
	}
	if r.histPipeline == nil {
		if err := r.createPipelines(); err != nil {
			r.destroyPipelines()
			return fmt.Errorf("gpu-stats: create pipelines: %w", err)
		}
	}
	r.destroyBuffers()
	if err := r.createBinBuffers(bins); err != nil {
		r.destroyBuffers()
		return fmt.Errorf("gpu-stats: allocate bins: %w", err)
	}
	r.bins = bins
	slogger().Debug("gpu-stats: histogram reducer ready", "bins", bins, "shared", r.externalDevice)
	return nil
}

// Reduce builds the histogram of the scan rectangle of mask on the GPU.
// It blocks until the bins have been read back.
func (r *HistogramReducer) Reduce(ctx context.Context, mask *image.Alpha) (stats.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.closed:
		return stats.Summary{}, stats.ErrClosed
	case r.bins == 0:
		return stats.Summary{}, stats.ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return stats.Summary{}, err
	}
	if mask == nil {
		return stats.Summary{}, stats.ErrEmptyDispatch
	}
	scan := stats.ScanRect(mask)
	if scan.Empty() {
		return stats.Summary{}, stats.ErrEmptyDispatch
	}

	packed := packMask(mask, scan)
	if err := r.ensureMaskBuffer(uint64(len(packed))); err != nil {
		return stats.Summary{}, fmt.Errorf("gpu-stats: allocate mask: %w", err)
	}
	// #nosec G115 -- dimensions are bounded by the mask size
	w, h := uint32(scan.Dx()), uint32(scan.Dy())
	r.queue.WriteBuffer(r.maskBuf, 0, packed)
	r.queue.WriteBuffer(r.paramsBuf, 0, makeParams(w/4, w, h, uint32(r.bins))) //nolint:gosec // bins <= 255

	readback, err := r.dispatch(ctx, w/stats.GroupSize, h/stats.GroupSize)
	if err != nil {
		return stats.Summary{}, err
	}

	r.last = stats.Histogram{Bins: unpackBins(readback, r.bins), Width: scan.Dx(), Height: scan.Dy()}
	return r.last.Summary(), nil
}

// Histogram returns the buckets of the last successful reduction.
func (r *HistogramReducer) Histogram() stats.Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Close releases all GPU resources. A shared device is left alone.
func (r *HistogramReducer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.destroyBuffers()
	r.destroyPipelines()
	r.releaseDevice()
	r.bins = 0
}

// SetDeviceProvider switches the reducer to a shared GPU device from an
// external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
//
// Resources created on a previous device are released; if the reducer was
// already initialized, pipelines and buffers are rebuilt on the new device.
func (r *HistogramReducer) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu-stats: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu-stats: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu-stats: provider HalQueue is not hal.Queue")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return stats.ErrClosed
	}
	r.destroyBuffers()
	r.destroyPipelines()
	r.releaseDevice()

	r.device = device
	r.queue = queue
	r.externalDevice = true

	if r.bins == 0 {
		return nil
	}
	if err := r.createPipelines(); err != nil {
		r.destroyPipelines()
		r.bins = 0
		return fmt.Errorf("gpu-stats: create pipelines with shared device: %w", err)
	}
	if err := r.createBinBuffers(r.bins); err != nil {
		r.destroyBuffers()
		r.bins = 0
		return fmt.Errorf("gpu-stats: allocate bins with shared device: %w", err)
	}
	slogger().Info("gpu-stats: switched to shared GPU device")
	return nil
}

func (r *HistogramReducer) initDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu-stats: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu-stats: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("gpu-stats: open device: %w", err)
	}
	r.instance = instance
	r.device = openDev.Device
	r.queue = openDev.Queue
	r.externalDevice = false
	slogger().Info("gpu-stats: GPU device opened", "adapter", selected.Info.Name)
	return nil
}

// releaseDevice destroys an owned device and instance and forgets a
// shared one.
func (r *HistogramReducer) releaseDevice() {
	if !r.externalDevice {
		if r.device != nil {
			r.device.Destroy()
		}
		if r.instance != nil {
			r.instance.Destroy()
		}
	}
	r.device = nil
	r.queue = nil
	r.instance = nil
	r.externalDevice = false
}

func (r *HistogramReducer) createPipelines() error {
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "histogram",
		Source: hal.ShaderSource{WGSL: histogramShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile histogram shader: %w", err)
	}
	r.shader = shader

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "histogram_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "histogram_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	clearPipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "histogram_clear_pipeline", Layout: r.pipeLayout,
		Compute: hal.ComputeState{Module: r.shader, EntryPoint: "clear_bins"},
	})
	if err != nil {
		return fmt.Errorf("create clear pipeline: %w", err)
	}
	r.clearPipeline = clearPipeline

	histPipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "histogram_pipeline", Layout: r.pipeLayout,
		Compute: hal.ComputeState{Module: r.shader, EntryPoint: "histogram"},
	})
	if err != nil {
		return fmt.Errorf("create histogram pipeline: %w", err)
	}
	r.histPipeline = histPipeline
	return nil
}

func (r *HistogramReducer) destroyPipelines() {
	if r.device == nil {
		return
	}
	if r.histPipeline != nil {
		r.device.DestroyComputePipeline(r.histPipeline)
		r.histPipeline = nil
	}
	if r.clearPipeline != nil {
		r.device.DestroyComputePipeline(r.clearPipeline)
		r.clearPipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}

func (r *HistogramReducer) createBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	const minBufSize = 4
	if size < minBufSize {
		size = minBufSize
	}
	return r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
}

func (r *HistogramReducer) createBinBuffers(bins int) error {
	size := uint64(bins) * 4 //nolint:gosec // bins in [1, 255]
	var err error
	if r.paramsBuf, err = r.createBuffer("histogram_params", paramsSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if r.binsBuf, err = r.createBuffer("histogram_bins", size,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc); err != nil {
		return err
	}
	if r.stagingBuf, err = r.createBuffer("histogram_staging", size,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	return nil
}

// ensureMaskBuffer grows the mask buffer to at least size bytes and
// rebuilds the bind group when the buffer changes.
func (r *HistogramReducer) ensureMaskBuffer(size uint64) error {
	if r.maskBuf != nil && r.maskSize >= size && r.bindGroup != nil {
		return nil
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.maskBuf == nil || r.maskSize < size {
		if r.maskBuf != nil {
			r.device.DestroyBuffer(r.maskBuf)
			r.maskBuf = nil
			r.maskSize = 0
		}
		buf, err := r.createBuffer("histogram_mask", size,
			gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		r.maskBuf = buf
		r.maskSize = size
	}

	binsSize := uint64(r.bins) * 4 //nolint:gosec // bins in [1, 255]
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "histogram_bind_group",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: r.paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: r.maskBuf.NativeHandle(), Offset: 0, Size: r.maskSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: r.binsBuf.NativeHandle(), Offset: 0, Size: binsSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bg
	return nil
}

func (r *HistogramReducer) destroyBuffers() {
	if r.device == nil {
		return
	}
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	for _, b := range []*hal.Buffer{&r.maskBuf, &r.stagingBuf, &r.binsBuf, &r.paramsBuf} {
		if *b != nil {
			r.device.DestroyBuffer(*b)
			*b = nil
		}
	}
	r.maskSize = 0
}

// dispatch records the clear and histogram passes plus the bins copy,
// submits them and returns the raw bins.
func (r *HistogramReducer) dispatch(ctx context.Context, groupsX, groupsY uint32) ([]byte, error) {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "histogram_encoder"})
	if err != nil {
		return nil, fmt.Errorf("gpu-stats: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("histogram"); err != nil {
		return nil, fmt.Errorf("gpu-stats: begin encoding: %w", err)
	}

	// Phase 1: zero the bins.
	clearPass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "histogram_clear"})
	clearPass.SetPipeline(r.clearPipeline)
	clearPass.SetBindGroup(0, r.bindGroup, nil)
	clearPass.Dispatch(clearGroups(r.bins), 1, 1)
	clearPass.End()

	// Phase 2: one 8x8 workgroup per thread group of the mask.
	histPass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "histogram_scan"})
	histPass.SetPipeline(r.histPipeline)
	histPass.SetBindGroup(0, r.bindGroup, nil)
	histPass.Dispatch(groupsX, groupsY, 1)
	histPass.End()

	binsSize := uint64(r.bins) * 4 //nolint:gosec // bins in [1, 255]
	encoder.CopyBufferToBuffer(r.binsBuf, r.stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: binsSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu-stats: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("gpu-stats: create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("gpu-stats: submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, waitTimeout(ctx))
	if err != nil {
		return nil, fmt.Errorf("gpu-stats: wait for GPU: %w", err)
	}
	if !fenceOK {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("gpu-stats: wait for GPU: timed out after %v", fenceTimeout)
	}

	// Phase 3 happens on the host: only the N bins cross the bus.
	readback := make([]byte, binsSize)
	if err := r.queue.ReadBuffer(r.stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("gpu-stats: readback: %w", err)
	}
	slogger().Debug("gpu-stats: histogram dispatched", "groups_x", groupsX, "groups_y", groupsY, "bins", r.bins)
	return readback, nil
}

// waitTimeout returns the fence timeout, shortened to ctx's deadline.
func waitTimeout(ctx context.Context) time.Duration {
	if d, ok := ctx.Deadline(); ok {
		if left := time.Until(d); left < fenceTimeout {
			return max(left, 0)
		}
	}
	return fenceTimeout
}

// clearGroups returns the workgroup count of the clear pass.
func clearGroups(bins int) uint32 {
	return uint32((bins + clearGroupSize - 1) / clearGroupSize) //nolint:gosec // bins in [1, 255]
}

// packMask copies the scan rectangle of mask into a tightly packed byte
// slice. Read as little-endian u32 words, texel x of a row is byte x%4 of
// word x/4. The scan width is a multiple of the group size, so rows are
// word aligned.
func packMask(mask *image.Alpha, scan image.Rectangle) []byte {
	w := scan.Dx()
	out := make([]byte, w*scan.Dy())
	for y := scan.Min.Y; y < scan.Max.Y; y++ {
		off := mask.PixOffset(scan.Min.X, y)
		copy(out[(y-scan.Min.Y)*w:], mask.Pix[off:off+w])
	}
	return out
}

// makeParams serializes the Params uniform.
func makeParams(stride, width, height, bins uint32) []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:], stride)
	binary.LittleEndian.PutUint32(buf[4:], width)
	binary.LittleEndian.PutUint32(buf[8:], height)
	binary.LittleEndian.PutUint32(buf[12:], bins)
	return buf
}

// unpackBins decodes n little-endian u32 counters.
func unpackBins(data []byte, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}
