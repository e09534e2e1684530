package common

import (
	"encoding/binary"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// WordBytes is the size of one GPU table header word in bytes.
const WordBytes = 4

// NativeEndian is the byte order GPU tables are written and read in. Tables are built
// for same-machine upload, so the host order is what the GPU sees.
var NativeEndian = binary.NativeEndian

// ErrNotPlain is returned when a type marked Plain does not have a flat, pointer-free,
// padding-free memory layout.
var ErrNotPlain = errors.New("common: type is not plain data")

// Scalar is the set of fixed-width numeric kinds whose in-memory representation is
// exactly their serialized form. Platform-sized int, uint and uintptr are left out
// since WGSL has no equivalent.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Plain is the opt-in marker for struct types that may be reinterpreted as raw bytes
// and uploaded as-is. Implementing PlainData is a promise that the type holds no
// pointers and no implicit padding; CheckPlain verifies it once per type.
type Plain interface {
	PlainData()
}

// plainChecks caches the CheckPlain verdict per type.
var plainChecks sync.Map // reflect.Type -> error

// CheckPlain verifies that T has a flat memory layout made of fixed-width numeric
// fields, arrays of them or nested structs of them, with no gaps between fields.
// Explicit blank padding fields (such as `_pad float32` in the std430 types) are data
// and are allowed.
//
// Returns:
//   - error: nil when T is plain, otherwise an error wrapping ErrNotPlain
func CheckPlain[T Plain]() error {
	return checkPlainType(reflect.TypeFor[T]())
}

func checkPlainType(t reflect.Type) error {
	if cached, ok := plainChecks.Load(t); ok {
		if cached == nil {
			return nil
		}
		return cached.(error)
	}
	err := walkPlain(t, t.String())
	if err == nil {
		plainChecks.Store(t, nil)
	} else {
		plainChecks.Store(t, err)
	}
	return err
}

func walkPlain(t reflect.Type, path string) error {
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Array:
		return walkPlain(t.Elem(), path+"[]")
	case reflect.Struct:
		var next uintptr
		for i := range t.NumField() {
			f := t.Field(i)
			if f.Offset != next {
				return fmt.Errorf("%w: %s has %d bytes of padding before %s", ErrNotPlain, path, f.Offset-next, f.Name)
			}
			if err := walkPlain(f.Type, path+"."+f.Name); err != nil {
				return err
			}
			next = f.Offset + f.Type.Size()
		}
		if next != t.Size() {
			return fmt.Errorf("%w: %s has %d bytes of trailing padding", ErrNotPlain, path, t.Size()-next)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s has kind %s", ErrNotPlain, path, t.Kind())
	}
}

// SizeOf returns the stride of T in bytes.
//
// Returns:
//   - int: unsafe.Sizeof of a T value
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
// T must satisfy the plain-data contract (a Scalar, or a Plain type that passes CheckPlain).
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), SizeOf[T]()*len(data))
}

// StructToBytes reinterprets a pointer to a value as a raw byte slice using unsafe.
// The returned slice has length equal to the value's size in memory.
//
// Parameters:
//   - v: pointer to the value to reinterpret
//
// Returns:
//   - []byte: byte slice view of the value's memory
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
