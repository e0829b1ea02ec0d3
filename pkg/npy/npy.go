// Package npy decodes the NumPy .npy array container.
//
// A file is a fixed magic, a version pair, a little-endian header length,
// a Python dict literal describing the array and a dense payload. Decoding
// reads the stream strictly forward: the header stages leave the cursor on
// the first payload byte and the value decoder consumes exactly
// rows*cols elements.
//
// Only two dimensional (or one dimensional, represented as a single row)
// float32 payloads are decoded. Other element types are recognised in the
// header so they can be inspected, but decoding them fails with
// ErrUnsupportedElementType.
package npy

import "fmt"

// Magic is the fixed signature that opens every .npy file.
const Magic = "\x93NUMPY"

// Required header dictionary keys.
const (
	KeyDescr        = "descr"
	KeyFortranOrder = "fortran_order"
	KeyShape        = "shape"
)

type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

func (e Endianness) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

type ElementType uint8

const (
	UInt8 ElementType = iota
	Int8
	UInt16
	Int16
	UInt32
	Int32
	UInt64
	Int64
	Float32
	Float64
)

func (t ElementType) String() string {
	switch t {
	case UInt8:
		return "uint8"
	case Int8:
		return "int8"
	case UInt16:
		return "uint16"
	case Int16:
		return "int16"
	case UInt32:
		return "uint32"
	case Int32:
		return "int32"
	case UInt64:
		return "uint64"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

func (t ElementType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Size is the width of one element in bytes.
func (t ElementType) Size() int {
	switch t {
	case UInt8, Int8:
		return 1
	case UInt16, Int16:
		return 2
	case UInt32, Int32, Float32:
		return 4
	default:
		return 8
	}
}

type StorageOrder uint8

const (
	RowMajor StorageOrder = iota
	ColumnMajor
)

func (o StorageOrder) String() string {
	if o == ColumnMajor {
		return "column-major"
	}
	return "row-major"
}

func (o StorageOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Format is the typed view of the header dictionary.
type Format struct {
	Type   ElementType  `json:"type"`
	Endian Endianness   `json:"endian"`
	Order  StorageOrder `json:"order"`
	Shape  [2]int       `json:"shape"`
}

// NumElements is rows*cols.
func (f Format) NumElements() int {
	return f.Shape[0] * f.Shape[1]
}

// PayloadSize is the number of payload bytes the format declares.
func (f Format) PayloadSize() int64 {
	return int64(f.NumElements()) * int64(f.Type.Size())
}

// Header is everything that precedes the payload.
type Header struct {
	Major      uint8             `json:"major"`
	Minor      uint8             `json:"minor"`
	HeaderLen  int               `json:"header_len"`
	Metadata   map[string]string `json:"metadata"`
	Format     Format            `json:"format"`
	DataOffset int64             `json:"data_offset"`
}

// Array is a decoded payload. Values are always row-major, whatever order
// the file stored them in.
type Array struct {
	Shape  [2]int    `json:"shape"`
	Values []float64 `json:"values"`
}

func (a *Array) Rows() int { return a.Shape[0] }
func (a *Array) Cols() int { return a.Shape[1] }

// At returns the element at row i, column j.
func (a *Array) At(i, j int) float64 {
	return a.Values[i*a.Shape[1]+j]
}

// Row returns row i as a subslice of Values.
func (a *Array) Row(i int) []float64 {
	n := a.Shape[1]
	return a.Values[i*n : (i+1)*n]
}
