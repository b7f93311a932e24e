// Package zopen takes a readCloser and optionally wraps it so reads
// are decompressed and, upon calling Close, the decompressor is
// closed, followed by the underlying stream. Detection is done by
// peeking at the magic bytes rather than trying the decompressor and
// seeking back, so it works on pipes and standard input too.

package zopen

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
)

type Reader struct { // This is what we return.
	orig io.ReadCloser
	br   *bufio.Reader
	zrdr *gzip.Reader
}

// Read makes sure we read from the compressed stream and
// not the underlying stream.
func (r *Reader) Read(p []byte) (int, error) {
	if r.zrdr != nil {
		return r.zrdr.Read(p)
	}
	return r.br.Read(p)
}

// Close closes the decompressor, then the underlying backing
// readCloser. It should work if the source is a file or an http
// stream.
func (r *Reader) Close() error {
	if r.zrdr == nil {
		return r.orig.Close()
	}
	var s string
	if e := r.zrdr.Close(); e != nil { // Close decompressor
		s = e.Error()
	}
	if e := r.orig.Close(); e != nil { // and backing stream
		s = s + " " + e.Error()
	}
	if s == "" {
		return nil
	}
	return errors.New(s)
}

// Wrap takes a source like a file pointer or http stream, which must
// be gzip compressed, and wraps it so the correct Close and Read will
// be called.
func Wrap(fp io.ReadCloser) (*Reader, error) {
	r := &Reader{orig: fp, br: bufio.NewReader(fp)}
	var err error
	r.zrdr, err = gzip.NewReader(r.br) // No need to check error.
	return r, err                      // Just pass it back
}

// WrapMaybe will decide if the underlying stream is compressed
// and wrap it if necessary.
func WrapMaybe(fp io.ReadCloser) (*Reader, error) {
	r := &Reader{orig: fp, br: bufio.NewReader(fp)}
	magic, err := r.br.Peek(2)
	if err != nil { // too short to be compressed, leave it alone
		return r, nil
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		r.zrdr, err = gzip.NewReader(r.br)
		return r, err
	}
	return r, nil
}
