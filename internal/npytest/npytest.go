// Package npytest builds .npy images for tests.
package npytest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

const magic = "\x93NUMPY"

// Build assembles a .npy image with the given format version and header
// dict. The dict is padded with spaces and a final newline so the payload
// starts on a 64 byte boundary, as numpy writes it.
func Build(major byte, dict string, payload []byte) []byte {
	width := 2
	if major == 2 {
		width = 4
	}
	pre := len(magic) + 2 + width
	total := pre + len(dict) + 1
	if rem := total % 64; rem != 0 {
		total += 64 - rem
	}
	header := bytes.Repeat([]byte{' '}, total-pre)
	copy(header, dict)
	header[len(header)-1] = '\n'

	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(major)
	buf.WriteByte(0)
	if width == 2 {
		_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	} else {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(header)))
	}
	buf.Write(header)
	buf.Write(payload)
	return buf.Bytes()
}

// Float32 encodes values in the given byte order.
func Float32(order binary.ByteOrder, values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		order.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// RowMajor builds a little-endian, row-major float32 file of the given shape.
func RowMajor(rows, cols int, values ...float32) []byte {
	dict := "{'descr': '<f4', 'fortran_order': False, 'shape': (" + strconv.Itoa(rows) + ", " + strconv.Itoa(cols) + "), }"
	return Build(1, dict, Float32(binary.LittleEndian, values...))
}

// WriteFile writes data under dir and returns the path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
