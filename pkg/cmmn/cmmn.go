// 9 Feb 2026

package cmmn

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}

	if _, err := io.WriteString(f_tmp, s); err != nil {
		return "", fmt.Errorf("writing string to temp file %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}

// WrtTempGz is WrtTemp with gzip compression on the way out. We claim
// to read compressed files, so the tests need a way to make some.
func WrtTempGz(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}
	zw := gzip.NewWriter(f_tmp)
	if _, err := io.WriteString(zw, s); err != nil {
		return "", fmt.Errorf("writing string to temp file %v", f_tmp.Name())
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("closing compressor on %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}
