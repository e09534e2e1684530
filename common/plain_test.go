package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type vec4 struct {
	X, Y, Z, W float32
}

func (vec4) PlainData() {}

type particle struct {
	Position vec4
	Velocity [3]float32
	_pad     float32
	Age      uint32
	Seed     int32
}

func (particle) PlainData() {}

type gapped struct {
	Kind  uint16
	Value float32
}

func (gapped) PlainData() {}

type tailPadded struct {
	Value float64
	Kind  uint8
}

func (tailPadded) PlainData() {}

type named struct {
	Name string
}

func (named) PlainData() {}

type sized struct {
	Count int
}

func (sized) PlainData() {}

func TestCheckPlain(t *testing.T) {
	require.NoError(t, CheckPlain[vec4]())
	require.NoError(t, CheckPlain[particle]())

	err := CheckPlain[gapped]()
	require.ErrorIs(t, err, ErrNotPlain)
	require.Contains(t, err.Error(), "2 bytes of padding before Value")

	err = CheckPlain[tailPadded]()
	require.ErrorIs(t, err, ErrNotPlain)
	require.Contains(t, err.Error(), "7 bytes of trailing padding")

	require.ErrorIs(t, CheckPlain[named](), ErrNotPlain)
	require.ErrorIs(t, CheckPlain[sized](), ErrNotPlain)
}

func TestCheckPlainCached(t *testing.T) {
	first := CheckPlain[gapped]()
	second := CheckPlain[gapped]()
	require.Same(t, first, second)
}

func TestSliceToBytes(t *testing.T) {
	require.Nil(t, SliceToBytes([]uint32(nil)))

	values := []uint32{0x01020304, 0x05060708}
	raw := SliceToBytes(values)
	require.Len(t, raw, 8)
	require.Equal(t, uint32(0x01020304), NativeEndian.Uint32(raw[0:]))
	require.Equal(t, uint32(0x05060708), NativeEndian.Uint32(raw[4:]))

	// The view aliases the source.
	values[1] = 0
	require.Equal(t, uint32(0), NativeEndian.Uint32(raw[4:]))
}

func TestStructToBytes(t *testing.T) {
	v := vec4{X: 1, Y: 2, Z: 3, W: 4}
	raw := StructToBytes(&v)
	require.Len(t, raw, 16)
	require.Equal(t, SliceToBytes([]float32{1, 2, 3, 4}), raw)
	require.Equal(t, 16, SizeOf[vec4]())
	require.Equal(t, 40, SizeOf[particle]())
}
