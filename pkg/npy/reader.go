package npy

import (
	"bufio"
	"errors"
	"io"
)

const readerBufSize = 64 << 10

// reader is the single forward-only cursor shared by every decode stage.
// All reads go through peek and consume so the offset always matches the
// number of bytes handed to a stage.
type reader struct {
	r   *bufio.Reader
	off int64
}

func newReader(rd io.Reader) *reader {
	if br, ok := rd.(*bufio.Reader); ok {
		return &reader{r: br}
	}
	return &reader{r: bufio.NewReaderSize(rd, readerBufSize)}
}

// peek returns the bytes currently buffered without consuming them,
// filling the buffer first when it is empty. It returns io.EOF only when
// the source has no more bytes.
func (r *reader) peek() ([]byte, error) {
	if r.r.Buffered() == 0 {
		if _, err := r.r.Peek(1); err != nil {
			return nil, err
		}
	}
	return r.r.Peek(r.r.Buffered())
}

func (r *reader) consume(n int) error {
	d, err := r.r.Discard(n)
	r.off += int64(d)
	return err
}

// readFull fills buf completely. It returns io.EOF when nothing could be
// read and io.ErrUnexpectedEOF when the source ended part way.
func (r *reader) readFull(buf []byte) error {
	filled := 0
	for filled < len(buf) {
		b, err := r.peek()
		if err != nil {
			if errors.Is(err, io.EOF) && filled > 0 {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		n := copy(buf[filled:], b)
		if err := r.consume(n); err != nil {
			return err
		}
		filled += n
	}
	return nil
}

// readText reads exactly n bytes. The result grows with the data actually
// present so a bogus length cannot force a huge allocation up front.
func (r *reader) readText(n int) ([]byte, error) {
	out := make([]byte, 0, min(n, readerBufSize))
	for len(out) < n {
		b, err := r.peek()
		if err != nil {
			if errors.Is(err, io.EOF) && len(out) > 0 {
				return out, io.ErrUnexpectedEOF
			}
			return out, err
		}
		take := min(len(b), n-len(out))
		out = append(out, b[:take]...)
		if err := r.consume(take); err != nil {
			return out, err
		}
	}
	return out, nil
}

// headerReadError classifies a failed header read: running out of bytes is
// a truncated file, anything else is an I/O failure.
func headerReadError(stage Stage, err error) *Error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wrapError(ErrTruncatedFile, stage, err, "file size is too short")
	}
	return wrapError(ErrIoFailure, stage, err, "read failed")
}
