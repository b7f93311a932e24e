// An error implementation that saves the line number and the line we
// were trying to read. The reader does not try to recover, so one of
// these is always the end of the story for a file.

package pdb

import (
	"strconv"
)

const maxMsgLen = 70

type readError struct {
	n      int    // line number, one-based
	inline string // the line that provoked the error
	desc   string // description of the error
}

func firstPart(s string) string {
	l := len(s)
	if l > maxMsgLen {
		l = maxMsgLen
	}
	return s[:l]
}

// Error puts what we know into one string: the number of the line we
// were on and the start of the line itself, since the line number is
// useless to someone looking at a file their pipeline re-wrapped.
func (e readError) Error() string {
	var errmsg string
	if e.n != 0 {
		errmsg = "Line: " + strconv.FormatInt(int64(e.n), 10) + " "
	}
	errmsg += e.desc
	if e.n != 0 {
		errmsg += "\nLine starting with\n" + firstPart(e.inline)
	}
	return errmsg
}
