// Package upload copies assembled tables into WebGPU storage buffers.
package upload

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/Carmen-Shannon/gputable/engine/table"
	"github.com/cespare/xxhash/v2"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/colega/zeropool"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// Device is the part of *wgpu.Device an Uploader needs.
type Device interface {
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

// Queue is the part of *wgpu.Queue an Uploader needs.
type Queue interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

var (
	_ Device = (*wgpu.Device)(nil)
	_ Queue  = (*wgpu.Queue)(nil)
)

var stagingPool zeropool.Pool[[]byte]

// Uploader owns one GPU storage buffer and rewrites it from a table on demand.
// The buffer is created on the first upload and recreated whenever a table outgrows
// it; it never shrinks.
type Uploader interface {
	// Upload assembles t into a staging buffer and writes it to offset 0 of the GPU
	// buffer. t is consumed.
	//
	// Parameters:
	//   - t: the table to upload
	//
	// Returns:
	//   - bool: false if the write was skipped because the contents were unchanged
	//   - error: an error if assembly, buffer creation or the queue write fails
	Upload(t table.Table) (bool, error)

	// Buffer returns the current GPU buffer, or nil before the first upload.
	//
	// Returns:
	//   - *wgpu.Buffer: the GPU buffer to bind
	Buffer() *wgpu.Buffer

	// Capacity returns the size in bytes of the current GPU buffer.
	//
	// Returns:
	//   - uint64: the buffer size
	Capacity() uint64

	// Size returns the padded size in bytes of the last uploaded table.
	//
	// Returns:
	//   - uint64: the byte count written by the last upload
	Size() uint64

	// Release frees the GPU buffer. The Uploader may be reused afterwards.
	Release()
}

type uploader struct {
	mu sync.Mutex

	device  Device
	queue   Queue
	release func(*wgpu.Buffer)
	logger  logrus.FieldLogger

	label         string
	usage         wgpu.BufferUsage
	minSize       uint64
	skipUnchanged bool

	buffer   *wgpu.Buffer
	capacity uint64
	size     uint64
	hash     uint64
	hashed   bool
}

var _ Uploader = &uploader{}

// NewUploader creates an Uploader that allocates buffers on device and writes them
// through queue. Buffers default to storage usage with copy-dst so a table can be
// bound as array<u32> and rewritten every frame.
//
// Parameters:
//   - device: the device that creates buffers
//   - queue: the queue that writes them
//   - opts: variadic list of UploaderBuilderOption functions to configure the uploader
//
// Returns:
//   - Uploader: the new uploader
func NewUploader(device Device, queue Queue, opts ...UploaderBuilderOption) Uploader {
	u := &uploader{
		device:  device,
		queue:   queue,
		release: (*wgpu.Buffer).Release,
		logger:  logrus.StandardLogger(),
		label:   "Table Buffer",
		usage:   wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *uploader) Upload(t table.Table) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	size := alignWord(t.ByteSize())

	staging := stagingPool.Get()
	if cap(staging) < size {
		staging = make([]byte, size)
	}
	staging = staging[:size]
	defer stagingPool.Put(staging)

	w := table.NewSliceWriter(staging)
	if _, err := t.WriteTo(w); err != nil {
		return false, fmt.Errorf("assemble %s: %w", u.label, err)
	}
	clear(staging[w.Len():])

	if u.skipUnchanged {
		sum := xxhash.Sum64(staging)
		if u.hashed && sum == u.hash && uint64(size) == u.size && u.buffer != nil {
			return false, nil
		}
		u.hash, u.hashed = sum, true
	}

	if err := u.ensureCapacity(uint64(size)); err != nil {
		u.hashed = false
		return false, err
	}
	if size > 0 {
		if err := u.queue.WriteBuffer(u.buffer, 0, staging); err != nil {
			u.hashed = false
			return false, fmt.Errorf("write %s: %w", u.label, err)
		}
	}
	u.size = uint64(size)
	return true, nil
}

// ensureCapacity makes sure the GPU buffer holds at least size bytes. Must be
// called with u.mu held.
func (u *uploader) ensureCapacity(size uint64) error {
	if u.buffer != nil && u.capacity >= size {
		return nil
	}
	want := max(size, u.minSize, common.WordBytes)
	buf, err := u.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            u.label,
		Size:             want,
		Usage:            u.usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return fmt.Errorf("create %s (%s): %w", u.label, humanize.Bytes(want), err)
	}
	if u.buffer != nil {
		u.logger.WithFields(logrus.Fields{
			"label": u.label,
			"from":  humanize.Bytes(u.capacity),
			"to":    humanize.Bytes(want),
		}).Debug("[Uploader] growing buffer")
		u.release(u.buffer)
	}
	u.buffer = buf
	u.capacity = want
	return nil
}

func (u *uploader) Buffer() *wgpu.Buffer {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.buffer
}

func (u *uploader) Capacity() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.capacity
}

func (u *uploader) Size() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.size
}

func (u *uploader) Release() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.buffer != nil {
		u.release(u.buffer)
	}
	u.buffer = nil
	u.capacity = 0
	u.size = 0
	u.hashed = false
}

// alignWord rounds n up to a whole number of header words. WebGPU requires
// writeBuffer sizes to be a multiple of 4.
func alignWord(n int) int {
	return (n + common.WordBytes - 1) &^ (common.WordBytes - 1)
}
