package npy

import (
	"encoding/binary"
	"testing"

	"github.com/samcharles93/npytool/internal/npytest"
)

func buildNpy(t *testing.T, major byte, dict string, payload []byte) []byte {
	t.Helper()
	return npytest.Build(major, dict, payload)
}

func float32Payload(order binary.ByteOrder, values ...float32) []byte {
	return npytest.Float32(order, values...)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	return npytest.WriteFile(t, t.TempDir(), name, data)
}

const dict2x3 = "{'descr': '<f4', 'fortran_order': False, 'shape': (2, 3), }"
