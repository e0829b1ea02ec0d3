package npy

import (
	"encoding/binary"
	"errors"
	"io"
	"unicode/utf8"
)

type version struct {
	major, minor uint8
}

// lengthWidth is the size of the header length field for a version.
func (v version) lengthWidth() int {
	if v.major == 2 {
		return 4
	}
	return 2
}

func readSignature(r *reader) error {
	// An empty stream is a truncated file, not a bad magic.
	if _, err := r.peek(); err != nil {
		return headerReadError(StageSignature, err)
	}
	var magic [len(Magic)]byte
	if err := r.readFull(magic[:]); err != nil {
		return headerReadError(StageSignature, err)
	}
	if string(magic[:]) != Magic {
		return newError(ErrInvalidMagic, StageSignature, "magic is invalid: % x", magic[:])
	}
	return nil
}

func readVersion(r *reader) (version, error) {
	var b [2]byte
	if err := r.readFull(b[:]); err != nil {
		return version{}, headerReadError(StageVersion, err)
	}
	v := version{major: b[0], minor: b[1]}
	switch v {
	case version{1, 0}, version{2, 0}:
		return v, nil
	default:
		return version{}, newError(ErrUnsupportedVersion, StageVersion, "unknown format version %d.%d", v.major, v.minor)
	}
}

func readHeaderLength(r *reader, v version) (int, error) {
	var b [4]byte
	buf := b[:v.lengthWidth()]
	if err := r.readFull(buf); err != nil {
		return 0, headerReadError(StageHeaderLength, err)
	}
	if len(buf) == 2 {
		return int(binary.LittleEndian.Uint16(buf)), nil
	}
	return int(binary.LittleEndian.Uint32(buf)), nil
}

func readHeaderText(r *reader, n int) (string, error) {
	if n == 0 {
		return "", newError(ErrHeaderParse, StageHeaderText, "empty header")
	}
	text, err := r.readText(n)
	if err != nil {
		return "", headerReadError(StageHeaderText, err)
	}
	if !utf8.Valid(text) {
		return "", newError(ErrHeaderParse, StageHeaderText, "header is not valid utf-8")
	}
	return string(text), nil
}

// readHeader runs the signature, version, length, text, grammar and
// interpretation stages and leaves r on the first payload byte.
func (d Decoder) readHeader(r *reader) (*Header, error) {
	if err := readSignature(r); err != nil {
		return nil, err
	}
	v, err := readVersion(r)
	if err != nil {
		return nil, err
	}
	n, err := readHeaderLength(r, v)
	if err != nil {
		return nil, err
	}
	text, err := readHeaderText(r, n)
	if err != nil {
		return nil, err
	}
	meta, err := ParseMetadata(text)
	if err != nil {
		return nil, err
	}
	format, err := d.interpret(meta)
	if err != nil {
		return nil, err
	}
	return &Header{
		Major:      v.major,
		Minor:      v.minor,
		HeaderLen:  n,
		Metadata:   meta,
		Format:     format,
		DataOffset: r.off,
	}, nil
}

// ReadHeader reads and interprets the header without touching the payload.
func (d Decoder) ReadHeader(rd io.Reader) (*Header, error) {
	if rd == nil {
		return nil, wrapError(ErrIoFailure, StageOpen, errors.New("nil reader"), "no input")
	}
	return d.readHeader(newReader(rd))
}
