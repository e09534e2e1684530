package upload

import (
	"errors"
	"io"
	"testing"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/Carmen-Shannon/gputable/engine/table"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	created []*wgpu.BufferDescriptor
	err     error
}

func (d *fakeDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	if d.err != nil {
		return nil, d.err
	}
	copied := *desc
	d.created = append(d.created, &copied)
	return new(wgpu.Buffer), nil
}

type queueWrite struct {
	buffer *wgpu.Buffer
	offset uint64
	data   []byte
}

type fakeQueue struct {
	writes []queueWrite
	err    error
}

func (q *fakeQueue) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error {
	if q.err != nil {
		return q.err
	}
	q.writes = append(q.writes, queueWrite{buffer: buf, offset: offset, data: append([]byte(nil), data...)})
	return nil
}

type releaseCounter struct {
	released []*wgpu.Buffer
}

func (r *releaseCounter) release(b *wgpu.Buffer) {
	r.released = append(r.released, b)
}

func newTestUploader(opts ...UploaderBuilderOption) (Uploader, *fakeDevice, *fakeQueue, *releaseCounter) {
	device := &fakeDevice{}
	queue := &fakeQueue{}
	rc := &releaseCounter{}
	logger, _ := test.NewNullLogger()
	opts = append([]UploaderBuilderOption{WithReleaseFunc(rc.release), WithLogger(logger)}, opts...)
	return NewUploader(device, queue, opts...), device, queue, rc
}

func words(values ...uint32) table.Table {
	return table.Append(table.Empty{}, table.Slice(values))
}

func TestUploadCreatesBuffer(t *testing.T) {
	u, device, queue, _ := newTestUploader(WithLabel("Lights"))

	written, err := u.Upload(words(7, 8, 9))
	require.NoError(t, err)
	require.True(t, written)

	require.Len(t, device.created, 1)
	require.Equal(t, "Lights", device.created[0].Label)
	require.Equal(t, uint64(16), device.created[0].Size)
	require.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, device.created[0].Usage)

	require.Len(t, queue.writes, 1)
	require.Same(t, u.Buffer(), queue.writes[0].buffer)
	require.Zero(t, queue.writes[0].offset)
	require.Equal(t, common.SliceToBytes([]uint32{1, 7, 8, 9}), queue.writes[0].data)
	require.Equal(t, uint64(16), u.Size())
}

func TestUploadPadsToWord(t *testing.T) {
	u, device, queue, _ := newTestUploader()

	tbl := table.Append(table.Empty{}, table.Slice([]uint8{1, 2, 3}))
	_, err := u.Upload(tbl)
	require.NoError(t, err)

	require.Equal(t, uint64(8), device.created[0].Size)
	require.Len(t, queue.writes[0].data, 8)
	require.Equal(t, []byte{1, 2, 3, 0}, queue.writes[0].data[4:])
}

func TestUploadGrowsBuffer(t *testing.T) {
	u, device, _, rc := newTestUploader(WithMinSize(32))

	_, err := u.Upload(words(1, 2))
	require.NoError(t, err)
	first := u.Buffer()
	require.Equal(t, uint64(32), u.Capacity())

	// Fits: no new buffer.
	_, err = u.Upload(words(1, 2, 3, 4, 5))
	require.NoError(t, err)
	require.Len(t, device.created, 1)

	_, err = u.Upload(words(make([]uint32, 20)...))
	require.NoError(t, err)
	require.Len(t, device.created, 2)
	require.Equal(t, uint64(84), u.Capacity())
	require.Equal(t, []*wgpu.Buffer{first}, rc.released)
	require.NotSame(t, first, u.Buffer())

	// Smaller tables reuse the grown buffer.
	_, err = u.Upload(words(1))
	require.NoError(t, err)
	require.Len(t, device.created, 2)
	require.Equal(t, uint64(8), u.Size())
}

func TestUploadSkipUnchanged(t *testing.T) {
	u, _, queue, _ := newTestUploader(WithSkipUnchanged(true))

	written, err := u.Upload(words(1, 2, 3))
	require.NoError(t, err)
	require.True(t, written)

	written, err = u.Upload(words(1, 2, 3))
	require.NoError(t, err)
	require.False(t, written)
	require.Len(t, queue.writes, 1)

	written, err = u.Upload(words(1, 2, 4))
	require.NoError(t, err)
	require.True(t, written)
	require.Len(t, queue.writes, 2)
}

func TestUploadWithoutSkipAlwaysWrites(t *testing.T) {
	u, _, queue, _ := newTestUploader()
	for range 3 {
		_, err := u.Upload(words(1, 2, 3))
		require.NoError(t, err)
	}
	require.Len(t, queue.writes, 3)
}

func TestUploadErrors(t *testing.T) {
	errDevice := errors.New("device lost")
	u, device, queue, _ := newTestUploader(WithLabel("Mesh"), WithSkipUnchanged(true))

	device.err = errDevice
	_, err := u.Upload(words(1))
	require.ErrorIs(t, err, errDevice)
	require.Contains(t, err.Error(), "create Mesh")
	require.Nil(t, u.Buffer())

	device.err = nil
	queue.err = io.ErrClosedPipe
	_, err = u.Upload(words(1))
	require.ErrorIs(t, err, io.ErrClosedPipe)

	// A failed write must not be remembered as the current contents.
	queue.err = nil
	written, err := u.Upload(words(1))
	require.NoError(t, err)
	require.True(t, written)
}

func TestUploadConsumedTable(t *testing.T) {
	u, _, queue, _ := newTestUploader()
	tbl := words(1, 2)
	_, err := table.Bytes(tbl)
	require.NoError(t, err)

	_, err = u.Upload(tbl)
	require.ErrorIs(t, err, table.ErrConsumed)
	require.Empty(t, queue.writes)
}

func TestRelease(t *testing.T) {
	u, device, _, rc := newTestUploader()
	_, err := u.Upload(words(1))
	require.NoError(t, err)
	buf := u.Buffer()

	u.Release()
	require.Nil(t, u.Buffer())
	require.Zero(t, u.Capacity())
	require.Equal(t, []*wgpu.Buffer{buf}, rc.released)

	u.Release()
	require.Len(t, rc.released, 1)

	_, err = u.Upload(words(1))
	require.NoError(t, err)
	require.Len(t, device.created, 2)
}

func TestGrowLogsAtDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	rc := &releaseCounter{}
	u := NewUploader(&fakeDevice{}, &fakeQueue{}, WithLogger(logger), WithReleaseFunc(rc.release))

	_, err := u.Upload(words(1))
	require.NoError(t, err)
	require.Empty(t, hook.AllEntries())

	_, err = u.Upload(words(1, 2, 3))
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, "Table Buffer", hook.LastEntry().Data["label"])
}
