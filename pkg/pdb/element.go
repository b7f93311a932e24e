// 9 Feb 2026

package pdb

// Element is a chemical element symbol as deposited in columns 77-78,
// normalized to the conventional capitalization, so "FE", "fe" and
// "Fe" all come out as "Fe". An empty Element means the columns were
// blank. We do not check the symbol against the periodic table;
// storing what the file says is enough for a reader.
type Element string

func isAsciiLetter(c byte) bool {
	c |= 0x20
	return c >= 'a' && c <= 'z'
}

// ElementOf builds an Element from the two raw bytes of the column
// pair. Blanks, digits and NULs on either side are dropped.
func ElementOf(a, b byte) Element {
	if !isAsciiLetter(a) {
		a = 0
	}
	if !isAsciiLetter(b) {
		b = 0
	}
	var buf []byte
	switch {
	case a == 0 && b == 0:
		return ""
	case a == 0:
		buf = []byte{b &^ 0x20}
	case b == 0:
		buf = []byte{a &^ 0x20}
	default:
		buf = []byte{a &^ 0x20, b | 0x20}
	}
	return Element(buf)
}

// IsHydrogen covers hydrogen and deuterium.
func (e Element) IsHydrogen() bool { return e == "H" || e == "D" }
