package npy

import (
	"strconv"
	"strings"
)

// typeCodes maps the part of descr after the byte-order character.
var typeCodes = map[string]ElementType{
	"u1": UInt8,
	"i1": Int8,
	"u2": UInt16,
	"i2": Int16,
	"u4": UInt32,
	"i4": Int32,
	"u8": UInt64,
	"i8": Int64,
	"f4": Float32,
	"f8": Float64,
}

// Interpret converts raw header metadata into a Format using the default
// Decoder settings.
func Interpret(meta map[string]string) (Format, error) {
	return Decoder{}.interpret(meta)
}

func (d Decoder) interpret(meta map[string]string) (Format, error) {
	descr, ok := meta[KeyDescr]
	if !ok {
		return Format{}, missingKey(KeyDescr)
	}
	order, ok := meta[KeyFortranOrder]
	if !ok {
		return Format{}, missingKey(KeyFortranOrder)
	}
	shape, ok := meta[KeyShape]
	if !ok {
		return Format{}, missingKey(KeyShape)
	}

	endian, typ, err := d.parseDescr(descr)
	if err != nil {
		return Format{}, err
	}
	so, err := parseFortranOrder(order)
	if err != nil {
		return Format{}, err
	}
	dims, err := parseShape(shape)
	if err != nil {
		return Format{}, err
	}
	return Format{Type: typ, Endian: endian, Order: so, Shape: dims}, nil
}

func (d Decoder) parseDescr(raw string) (Endianness, ElementType, error) {
	s := strings.Trim(raw, "'")
	if s == "" {
		return 0, 0, newError(ErrUnsupportedElementType, StageFormat, "empty descr")
	}
	endian := BigEndian
	if s[0] == '<' {
		endian = LittleEndian
	}
	code := s[1:]
	if d.LenientDescr {
		switch code {
		case "f4":
			return endian, Float32, nil
		case "f8":
			return endian, Float64, nil
		default:
			return endian, UInt8, nil
		}
	}
	typ, ok := typeCodes[code]
	if !ok {
		return 0, 0, newError(ErrUnsupportedElementType, StageFormat, "unknown descr %q", raw)
	}
	return endian, typ, nil
}

func parseFortranOrder(raw string) (StorageOrder, error) {
	switch raw {
	case "True":
		return ColumnMajor, nil
	case "False":
		return RowMajor, nil
	default:
		return 0, newError(ErrInvalidBooleanLiteral, StageFormat, "fortran_order must be True or False, got %q", raw)
	}
}

func parseShape(raw string) ([2]int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSuffix(strings.TrimSpace(s), ",")

	tokens := strings.Split(s, ",")
	dims := make([]int, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 0 {
			return [2]int{}, newError(ErrInvalidShape, StageFormat, "invalid shape value %q", raw)
		}
		dims[i] = n
	}

	var shape [2]int
	switch len(dims) {
	case 1:
		shape = [2]int{1, dims[0]}
	case 2:
		shape = [2]int{dims[0], dims[1]}
	default:
		return [2]int{}, newError(ErrInvalidShape, StageFormat, "shape %q has %d dimensions, want 1 or 2", raw, len(dims))
	}
	if shape[1] != 0 && shape[0] > maxInt/shape[1] {
		return [2]int{}, newError(ErrInvalidShape, StageFormat, "shape %q is too large", raw)
	}
	return shape, nil
}

const maxInt = int(^uint(0) >> 1)
