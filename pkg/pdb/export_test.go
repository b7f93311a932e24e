package pdb

import (
	"io"
	"os"
)

// Export some internal functions for testing

var (
	ReadInt    = readInt
	ReadDouble = readDouble
	ReadString = readString
	Rtrim      = rtrim
	ReadBase36 = readBase36
	ReadSnic   = readSnic
	ReadCharge = readCharge
	RecTag     = recTag
	DecodeDate = decodeDate
)

const (
	LineWidth = lineWidth
	BufSize   = bufSize
)

const (
	TagATOM   = tagATOM
	TagHETATM = tagHETATM
	TagTER    = tagTER
	TagEND    = tagEND
	TagMODEL  = tagMODEL
)

type MapSource = mapSource

func NewBufSource(r io.Reader) LineSource          { return newBufSource(r) }
func NewMapSource(fp *os.File) (*MapSource, error) { return newMapSource(fp) }
