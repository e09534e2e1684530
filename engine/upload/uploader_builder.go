package upload

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/sirupsen/logrus"
)

// UploaderBuilderOption is a functional option used to configure an Uploader during construction.
type UploaderBuilderOption func(*uploader)

// WithLabel sets the debug label given to the GPU buffer.
//
// Parameters:
//   - label: the buffer label
//
// Returns:
//   - UploaderBuilderOption: a function that sets the label
func WithLabel(label string) UploaderBuilderOption {
	return func(u *uploader) {
		u.label = label
	}
}

// WithUsage replaces the buffer usage flags. CopyDst is always added since the
// uploader writes through the queue.
//
// Parameters:
//   - usage: the buffer usage flags
//
// Returns:
//   - UploaderBuilderOption: a function that sets the usage
func WithUsage(usage wgpu.BufferUsage) UploaderBuilderOption {
	return func(u *uploader) {
		u.usage = usage | wgpu.BufferUsageCopyDst
	}
}

// WithMinSize sets the smallest buffer the uploader will allocate.
//
// Parameters:
//   - size: the minimum buffer size in bytes
//
// Returns:
//   - UploaderBuilderOption: a function that sets the minimum size
func WithMinSize(size uint64) UploaderBuilderOption {
	return func(u *uploader) {
		u.minSize = size
	}
}

// WithSkipUnchanged makes Upload hash each assembled table and skip the queue write
// when the bytes match the previous upload.
//
// Parameters:
//   - skip: true to enable change detection
//
// Returns:
//   - UploaderBuilderOption: a function that sets change detection
func WithSkipUnchanged(skip bool) UploaderBuilderOption {
	return func(u *uploader) {
		u.skipUnchanged = skip
	}
}

// WithLogger sets the logger used for buffer lifecycle messages.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - UploaderBuilderOption: a function that sets the logger
func WithLogger(logger logrus.FieldLogger) UploaderBuilderOption {
	return func(u *uploader) {
		u.logger = logger
	}
}

// WithReleaseFunc replaces the function used to free GPU buffers that have been
// outgrown or released.
//
// Parameters:
//   - release: the release function
//
// Returns:
//   - UploaderBuilderOption: a function that sets the release function
func WithReleaseFunc(release func(*wgpu.Buffer)) UploaderBuilderOption {
	return func(u *uploader) {
		u.release = release
	}
}
