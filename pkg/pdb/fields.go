// 9 Feb 2026
// Column scanners for fixed-width PDB fields. They are all total:
// blank or junk fields come back as zero values rather than errors,
// except the charge reader, where there is no sensible default.
// Each works on a slice that is exactly the field, so going past the
// end is impossible rather than forbidden.

package pdb

import "errors"

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

func isSpace(b byte) bool { return asciiSpace[b] }

// readInt reads an optionally signed decimal integer, skipping leading
// whitespace and stopping at the first byte that is not a digit.
func readInt(buf []byte) int {
	i := 0
	for i < len(buf) && isSpace(buf[i]) {
		i++
	}
	if i == len(buf) {
		return 0
	}
	sign := 1
	if buf[i] == '-' {
		sign = -1
		i++
	} else if buf[i] == '+' {
		i++
	}
	n := 0
	for ; i < len(buf) && buf[i] >= '0' && buf[i] <= '9'; i++ {
		n = n*10 + int(buf[i]-'0')
	}
	return sign * n
}

// readDouble reads a fixed-point number. One decimal point, no
// exponents, because the format never has them and a stray 'e' must
// not eat the next column.
func readDouble(buf []byte) float64 {
	i := 0
	for i < len(buf) && isSpace(buf[i]) {
		i++
	}
	if i == len(buf) {
		return 0
	}
	sign := 1.0
	if buf[i] == '-' {
		sign = -1
		i++
	} else if buf[i] == '+' {
		i++
	}
	d := 0.0
	for ; i < len(buf) && buf[i] >= '0' && buf[i] <= '9'; i++ {
		d = d*10 + float64(buf[i]-'0')
	}
	if i < len(buf) && buf[i] == '.' {
		mult := 0.1
		for i++; i < len(buf) && buf[i] >= '0' && buf[i] <= '9'; i++ {
			d += mult * float64(buf[i]-'0')
			mult *= 0.1
		}
	}
	return sign * d
}

// readString trims whitespace from both ends. A newline, carriage
// return or NUL ends the field early, so a short line reads as blank
// columns and not as the next line's content.
func readString(buf []byte) string {
	i := 0
	for i < len(buf) && isSpace(buf[i]) {
		i++
	}
	buf = buf[i:]
	for j, c := range buf {
		if c == '\n' || c == '\r' || c == 0 {
			buf = buf[:j]
			break
		}
	}
	j := len(buf)
	for j > 0 && isSpace(buf[j-1]) {
		j--
	}
	return string(buf[:j])
}

// rtrim cuts the slice at the first newline, carriage return or NUL
// and then drops trailing whitespace. Leading space stays, which
// matters when TITLE continuation lines are glued together.
func rtrim(buf []byte) []byte {
	for i, c := range buf {
		if c == '\n' || c == '\r' || c == 0 {
			buf = buf[:i]
			break
		}
	}
	j := len(buf)
	for j > 0 && isSpace(buf[j-1]) {
		j--
	}
	return buf[:j]
}

// readBase36 parses a base-36 numeral the way strtol does: leading
// whitespace, an optional sign, then digits and letters of either
// case, stopping at the first byte that fits neither.
func readBase36(buf []byte) int {
	i := 0
	for i < len(buf) && isSpace(buf[i]) {
		i++
	}
	sign := 1
	if i < len(buf) && (buf[i] == '-' || buf[i] == '+') {
		if buf[i] == '-' {
			sign = -1
		}
		i++
	}
	n := 0
	for ; i < len(buf); i++ {
		c := buf[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'A' && c <= 'Z':
			d = int(c-'A') + 10
		case c >= 'a' && c <= 'z':
			d = int(c-'a') + 10
		default:
			return sign * n
		}
		n = n*36 + d
	}
	return sign * n
}

// readSnic reads a residue sequence number and insertion code from a
// five byte field. Sequence numbers too big for four decimal digits
// use the hybrid-36 extension, where "A000" continues from 9999, so
// a leading letter switches the base.
func readSnic(buf []byte) SNIC {
	var sn SNIC
	if buf[0] < 'A' {
		sn.SeqNum = readInt(buf[:4])
	} else {
		sn.SeqNum = readBase36(buf[:4]) - 466560 + 10000
	}
	if buf[4] != ' ' {
		sn.ICode = buf[4]
	}
	return sn
}

// readCharge takes the two charge bytes of an atom record. The
// standard layout is "2+", but "+2" exists in the wild, so a digit in
// the second slot swaps the pair. Blank means no charge. A shape that
// is neither is an error; guessing a charge would be worse than
// stopping.
func readCharge(digit, sign byte) (int8, error) {
	if sign == ' ' && digit == ' ' { // by far the most common case
		return 0, nil
	}
	if sign >= '0' && sign <= '9' {
		digit, sign = sign, digit
	}
	if digit >= '0' && digit <= '9' {
		if sign != '+' && sign != '-' && sign != 0 && !isSpace(sign) {
			return 0, errors.New("Wrong format for charge: " + string([]byte{digit, sign}))
		}
		c := int8(digit - '0')
		if sign == '-' {
			c = -c
		}
		return c, nil
	}
	// neither byte was a digit, so the field should be blank
	return 0, nil
}

// recTag packs the first four bytes of a record with the ASCII case
// bit cleared. Comparing tags is then case-insensitive, and a blank
// and a NUL look the same, so "TER" with nothing after it still
// matches "TER ".
func recTag(line []byte) uint32 {
	return uint32(line[0]&^0x20)<<24 | uint32(line[1]&^0x20)<<16 |
		uint32(line[2]&^0x20)<<8 | uint32(line[3]&^0x20)
}

// Record tags for the types we honor. Only four bytes are compared,
// so MTRIX1/2/3 are all tagMTRIX and ORIGXn all tagORIGX. Everything
// not listed here is ignored, not rejected; deposited files are full
// of record types nobody reads any more.
const (
	tagATOM   = 'A'<<24 | 'T'<<16 | 'O'<<8 | 'M'
	tagHETATM = 'H'<<24 | 'E'<<16 | 'T'<<8 | 'A'
	tagANISOU = 'A'<<24 | 'N'<<16 | 'I'<<8 | 'S'
	tagREMARK = 'R'<<24 | 'E'<<16 | 'M'<<8 | 'A'
	tagCONECT = 'C'<<24 | 'O'<<16 | 'N'<<8 | 'E'
	tagSEQRES = 'S'<<24 | 'E'<<16 | 'Q'<<8 | 'R'
	tagHEADER = 'H'<<24 | 'E'<<16 | 'A'<<8 | 'D'
	tagTITLE  = 'T'<<24 | 'I'<<16 | 'T'<<8 | 'L'
	tagKEYWDS = 'K'<<24 | 'E'<<16 | 'Y'<<8 | 'W'
	tagEXPDTA = 'E'<<24 | 'X'<<16 | 'P'<<8 | 'D'
	tagCRYST1 = 'C'<<24 | 'R'<<16 | 'Y'<<8 | 'S'
	tagMTRIX  = 'M'<<24 | 'T'<<16 | 'R'<<8 | 'I'
	tagSCALE  = 'S'<<24 | 'C'<<16 | 'A'<<8 | 'L'
	tagORIGX  = 'O'<<24 | 'R'<<16 | 'I'<<8 | 'G'
	tagMODEL  = 'M'<<24 | 'O'<<16 | 'D'<<8 | 'E'
	tagENDMDL = 'E'<<24 | 'N'<<16 | 'D'<<8 | 'M'
	tagTER    = 'T'<<24 | 'E'<<16 | 'R'<<8
	tagSSBOND = 'S'<<24 | 'S'<<16 | 'B'<<8 | 'O'
	tagCISPEP = 'C'<<24 | 'I'<<16 | 'S'<<8 | 'P'
	tagEND    = 'E'<<24 | 'N'<<16 | 'D'<<8
)
