package npy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Decoder holds decode settings. The zero value is ready to use.
type Decoder struct {
	// LenientDescr maps unknown descr type codes to UInt8 instead of
	// failing, and treats "u8" as UInt8. Files decoded this way still fail
	// at the payload stage unless they are float32.
	LenientDescr bool
	// MaxElements rejects headers declaring more than this many elements
	// before any payload is allocated. Zero means no limit.
	MaxElements int
}

// Decode reads the .npy file at path.
func Decode(path string) (*Array, error) {
	return Decoder{}.Decode(path)
}

// DecodeReader decodes a .npy stream.
func DecodeReader(rd io.Reader) (*Array, error) {
	return Decoder{}.DecodeReader(rd)
}

// ReadHeader reads the header of a .npy stream.
func ReadHeader(rd io.Reader) (*Header, error) {
	return Decoder{}.ReadHeader(rd)
}

func (d Decoder) Decode(path string) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapError(ErrIoFailure, StageOpen, err, "open failed")
	}
	defer func() { _ = f.Close() }()
	return d.DecodeReader(f)
}

func (d Decoder) DecodeReader(rd io.Reader) (*Array, error) {
	if rd == nil {
		return nil, wrapError(ErrIoFailure, StageOpen, errors.New("nil reader"), "no input")
	}
	r := newReader(rd)
	h, err := d.readHeader(r)
	if err != nil {
		return nil, err
	}
	if n := h.Format.NumElements(); d.MaxElements > 0 && n > d.MaxElements {
		return nil, newError(ErrInvalidShape, StageFormat, "%d elements exceeds limit of %d", n, d.MaxElements)
	}
	return decodeValues(r, h.Format)
}

// decodeValues reads exactly NumElements values. The buffer grows with the
// payload actually present, so a header declaring a huge shape over a short
// file fails with ErrTruncatedFile instead of allocating up front. The k-th
// value read lands at the row-major slot given by the (i, j) counters, which
// advance down columns for column-major files and along rows otherwise.
func decodeValues(r *reader, f Format) (*Array, error) {
	if f.Type != Float32 {
		return nil, newError(ErrUnsupportedElementType, StagePayload, "not supported value format %s", f.Type)
	}
	var order binary.ByteOrder = binary.LittleEndian
	if f.Endian == BigEndian {
		order = binary.BigEndian
	}

	rows, cols := f.Shape[0], f.Shape[1]
	total := rows * cols
	read := make([]float64, 0, min(total, readerBufSize/4))

	var raw [4]byte
	for k := range total {
		if err := r.readFull(raw[:]); err != nil {
			return nil, payloadReadError(err, k, total)
		}
		read = append(read, float64(math.Float32frombits(order.Uint32(raw[:]))))
	}
	if f.Order == RowMajor || rows <= 1 || cols <= 1 {
		return &Array{Shape: f.Shape, Values: read}, nil
	}

	values := make([]float64, total)
	i, j := 0, 0
	for _, v := range read {
		values[i*cols+j] = v
		i++
		if i >= rows {
			i = 0
			j++
		}
	}
	return &Array{Shape: f.Shape, Values: values}, nil
}

func payloadReadError(err error, read, total int) *Error {
	if errors.Is(err, io.EOF) {
		return wrapError(ErrTruncatedFile, StagePayload, err,
			fmt.Sprintf("file size is too short: %d of %d elements", read, total))
	}
	return wrapError(ErrIoFailure, StagePayload, err, fmt.Sprintf("read element %d", read))
}
