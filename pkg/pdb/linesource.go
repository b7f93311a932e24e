// 10 Feb 2026
// A LineSource hands the reader one record at a time. The reader does
// not care whether the bytes come from a plain file, a pipe, an http
// body or a decompressor, so the two implementations here cover a
// buffered stream and a memory mapped file, and anyone with something
// stranger can bring their own.

package pdb

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

const (
	lineWidth = 82 // significant record bytes, newline included
	bufSize   = 88 // backing array; the tail stays NUL
)

// LineSource yields one record per call.
//
// NextLine fills buf with the next record, trailing newline included
// when it fits. At most len(buf)-1 bytes are stored and whatever
// remains of an overlong record is discarded up to its newline. The
// rest of buf is zeroed, so field readers can run past the content
// into NULs instead of into the previous record. The count of stored
// bytes comes back, or 0 and io.EOF when the input is used up.
type LineSource interface {
	NextLine(buf []byte) (int, error)
}

// bufSource reads records from any io.Reader through a bufio.Reader.
// It works for pipes, network bodies and decompressors.
type bufSource struct {
	rdr *bufio.Reader
}

func newBufSource(r io.Reader) *bufSource {
	return &bufSource{rdr: bufio.NewReader(r)}
}

func (b *bufSource) NextLine(buf []byte) (int, error) {
	lim := len(buf) - 1
	n := 0
	for {
		c, err := b.rdr.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if n < lim {
			buf[n] = c
			n++
		}
		if c == '\n' {
			break
		}
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// mapSource serves records out of a memory mapped file. Mapping
// fails on pipes, devices and empty files; the caller falls back to
// a bufSource then.
type mapSource struct {
	fp  *os.File
	mm  mmap.MMap
	pos int
}

func newMapSource(fp *os.File) (*mapSource, error) {
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &mapSource{fp: fp, mm: mm}, nil
}

func (m *mapSource) NextLine(buf []byte) (int, error) {
	if m.pos >= len(m.mm) {
		return 0, io.EOF
	}
	rec := m.mm[m.pos:]
	if i := bytes.IndexByte(rec, '\n'); i >= 0 {
		rec = rec[:i+1]
	}
	m.pos += len(rec)
	n := len(rec)
	if lim := len(buf) - 1; n > lim {
		n = lim // the newline sits at the end, so it is what gets cut
	}
	copy(buf, rec[:n])
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return n, nil
}

// Close unmaps the file and closes it. Trouble from either step is
// kept; the second error should not shadow the first.
func (m *mapSource) Close() error {
	var s string
	if err := m.mm.Unmap(); err != nil {
		s = err.Error()
	}
	if err := m.fp.Close(); err != nil {
		if s != "" {
			s += " "
		}
		s += err.Error()
	}
	if s == "" {
		return nil
	}
	return errors.New(s)
}
