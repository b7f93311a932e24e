// 11 Feb 2026

package pdb_test

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/andrew-torda/oldpdb/pkg/cmmn"
	. "github.com/andrew-torda/oldpdb/pkg/pdb"
)

// drain pulls every record from a source and returns them as strings,
// checking after each call that the rest of the buffer really was
// zeroed. The field readers depend on that.
func drain(src LineSource, t *testing.T) []string {
	t.Helper()
	var got []string
	buf := make([]byte, BufSize)
	line := buf[:LineWidth]
	for {
		n, err := src.NextLine(line)
		if err == io.EOF {
			return got
		}
		if err != nil {
			t.Fatal("NextLine:", err)
		}
		for i := n; i < len(buf); i++ {
			if buf[i] != 0 {
				t.Fatalf("byte %d after a %d byte record not zeroed", i, n)
			}
		}
		got = append(got, string(line[:n]))
	}
}

func TestBufSourceLines(t *testing.T) {
	var tests = []struct {
		in   string
		want []string
	}{
		{"END\n", []string{"END\n"}},
		{"a\nb\n", []string{"a\n", "b\n"}},
		{"a\r\nb\r\n", []string{"a\r\n", "b\r\n"}}, // CRLF kept, fields trim it
		{"no newline at eof", []string{"no newline at eof"}},
		{"a\n\nb\n", []string{"a\n", "\n", "b\n"}},
		{"", nil},
	}
	for _, tst := range tests {
		got := drain(NewBufSource(strings.NewReader(tst.in)), t)
		if len(got) != len(tst.want) {
			t.Errorf("input %q got %d records wanted %d", tst.in, len(got), len(tst.want))
			continue
		}
		for i := range got {
			if got[i] != tst.want[i] {
				t.Errorf("input %q record %d got %q wanted %q",
					tst.in, i, got[i], tst.want[i])
			}
		}
	}
}

// A record longer than the window keeps its first 81 bytes and loses
// the rest up to the newline. The line after it must come out intact.
func TestBufSourceOverflow(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := drain(NewBufSource(strings.NewReader(long+"\nEND\n")), t)
	if len(got) != 2 {
		t.Fatal("expected 2 records, got", len(got))
	}
	if len(got[0]) != LineWidth-1 || got[0] != long[:LineWidth-1] {
		t.Errorf("overlong record kept %d bytes", len(got[0]))
	}
	if got[1] != "END\n" {
		t.Errorf("record after the overflow got %q", got[1])
	}
}

// The mmap source must produce byte for byte what the buffered source
// produces, on a real file with an overlong line thrown in.
func TestMapSourceMatchesBuf(t *testing.T) {
	content := "HEADER    TEST\n" + strings.Repeat("y", 150) + "\nlast line no newline"
	fname, err := cmmn.WrtTemp(content)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)

	viaBuf := drain(NewBufSource(strings.NewReader(content)), t)

	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	src, err := NewMapSource(fp)
	if err != nil {
		fp.Close()
		t.Skip("mmap not available here:", err)
	}
	viaMap := drain(src, t)
	if err := src.Close(); err != nil {
		t.Error("closing map source:", err)
	}

	if len(viaMap) != len(viaBuf) {
		t.Fatalf("map gave %d records, buf gave %d", len(viaMap), len(viaBuf))
	}
	for i := range viaMap {
		if viaMap[i] != viaBuf[i] {
			t.Errorf("record %d differs: map %q buf %q", i, viaMap[i], viaBuf[i])
		}
	}
}

// brokenRdr fails after feeding some bytes, the way a network stream
// or a truncated compressed file does.
type brokenRdr struct {
	s    string
	done bool
}

func (b *brokenRdr) Read(p []byte) (int, error) {
	if b.done {
		return 0, errors.New("socket fell over")
	}
	b.done = true
	return copy(p, b.s), nil
}

func TestBufSourcePassesErrors(t *testing.T) {
	src := NewBufSource(&brokenRdr{s: "HEADER    X\nATOM"})
	buf := make([]byte, BufSize)
	if _, err := src.NextLine(buf[:LineWidth]); err != nil {
		t.Fatal("first line should be fine:", err)
	}
	_, err := src.NextLine(buf[:LineWidth])
	if err == nil || err == io.EOF {
		t.Error("a real read error must not look like EOF, got", err)
	}
}
