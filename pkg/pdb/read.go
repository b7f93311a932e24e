// 10 Feb 2026
// The reader proper. One pass over the records, building the tree as
// the atoms arrive, with a few records (SSBOND, CISPEP) put aside for
// a second look once every residue exists. Parsing stops at the first
// line we cannot trust. What would a partial structure be good for?

package pdb

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andrew-torda/oldpdb/pkg/unitcell"
	"github.com/andrew-torda/oldpdb/pkg/zopen"
)

// pdbReader is the state of one pass over one entry.
type pdbReader struct {
	src LineSource
	n   int // number of the record in hand, one-based

	st    *Structure
	model *Model
	chain *Chain
	resi  *Residue
	ents  *entitySetter

	hasTer      map[string]bool // "model/chain" pairs that saw a TER
	connRecords []string        // SSBOND and CISPEP lines for the post-pass
	scratch     unitcell.Transform

	buf [bufSize]byte
}

// wrong wraps a complaint with the current line number and content.
func (pr *pdbReader) wrong(desc string) error {
	line := pr.buf[:lineWidth]
	return readError{n: pr.n, inline: string(rtrim(line)), desc: desc}
}

func readFromLineSource(src LineSource, source string) (*Structure, error) {
	pr := &pdbReader{
		src:     src,
		st:      NewStructure(),
		hasTer:  make(map[string]bool),
		scratch: unitcell.Identity(),
	}
	pr.st.Name = basename(source)
	pr.ents = newEntitySetter(pr.st)
	pr.model = pr.st.FindOrAddModel("1")

	line := pr.buf[:lineWidth]
	for {
		n, err := src.NextLine(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError{n: pr.n + 1, desc: err.Error()}
		}
		pr.n++
		done, err := pr.record(line, n)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if err := pr.finalize(); err != nil {
		return nil, err
	}
	return pr.st, nil
}

// record dispatches one line. n is the byte count from the source,
// newline included, which is what all the length guards below are
// calibrated against. Returning done means an END record was seen.
func (pr *pdbReader) record(line []byte, n int) (done bool, err error) {
	switch recTag(line) {
	case tagATOM, tagHETATM:
		err = pr.atom(line, n)
	case tagANISOU:
		err = pr.anisou(line)
	case tagREMARK, tagCONECT:
		// ignored, though CONECT might be worth keeping one day
	case tagSEQRES:
		chainName := readString(line[10:12])
		ent := pr.ents.setForChain(chainName, EntPolymer)
		for i := 19; i < 68; i += 4 {
			if name := readString(line[i : i+3]); name != "" {
				ent.Sequence = append(ent.Sequence, name)
			}
		}
	case tagHEADER:
		if n > 10 {
			pr.st.Info["_struct_keywords.pdbx_keywords"] = string(rtrim(line[10:50]))
		}
		if n > 59 {
			pr.st.Info["_pdbx_database_status.recvd_initial_deposition_date"] =
				decodeDate(line[50:59])
		}
		if n > 66 {
			pr.st.Info["_entry.id"] = string(line[62:66])
		}
	case tagTITLE:
		if n > 10 {
			pr.st.Info["_struct.title"] += string(rtrim(line[10:n]))
		}
	case tagKEYWDS:
		if n > 10 {
			pr.st.Info["_struct_keywords.text"] += string(rtrim(line[10:n]))
		}
	case tagEXPDTA:
		if n > 10 {
			pr.st.Info["_exptl.method"] += string(rtrim(line[10:n]))
		}
	case tagCRYST1:
		if n > 54 {
			err := pr.st.Cell.Set(
				readDouble(line[6:15]), readDouble(line[15:24]), readDouble(line[24:33]),
				readDouble(line[33:40]), readDouble(line[40:47]), readDouble(line[47:54]))
			if err != nil {
				return false, pr.wrong(err.Error())
			}
		}
		if n > 56 {
			pr.st.SgHM = readString(line[55:66])
		}
		if n > 67 {
			if z := readString(line[66:70]); z != "" {
				pr.st.Info["_cell.Z_PDB"] = z
			}
		}
	case tagMTRIX:
		if readMatrixRow(&pr.scratch, line, n) == 3 {
			if pr.scratch != unitcell.Identity() {
				given := n > 59 && line[59] == '1'
				pr.st.Ncs = append(pr.st.Ncs,
					NcsOp{Id: readString(line[7:10]), Given: given, Tr: pr.scratch})
			}
			pr.scratch = unitcell.Identity()
		}
	case tagSCALE:
		if readMatrixRow(&pr.scratch, line, n) == 3 {
			pr.st.Cell.SetMatricesFromFract(pr.scratch)
			pr.scratch = unitcell.Identity()
		}
	case tagORIGX:
		if readMatrixRow(&pr.scratch, line, n) == 3 {
			pr.st.Origx = pr.scratch
			pr.scratch = unitcell.Identity()
		}
	case tagMODEL:
		if pr.model != nil && pr.chain != nil {
			return false, pr.wrong("MODEL without ENDMDL?")
		}
		name := strconv.Itoa(readInt(line[10:14]))
		pr.model = pr.st.FindOrAddModel(name)
		if len(pr.model.Chains) != 0 {
			return false, pr.wrong("duplicate MODEL number: " + name)
		}
		pr.chain = nil
	case tagENDMDL:
		pr.model, pr.chain = nil, nil
	case tagTER: // finishes polymer chains
		if pr.chain != nil {
			pr.hasTer[pr.model.Name+"/"+pr.chain.Name] = true
		}
		pr.chain = nil
	case tagSSBOND:
		// Stored right-trimmed: a record cut off right at an insertion
		// code column must read as "no insertion code", not as newline.
		if n > 34 {
			pr.connRecords = append(pr.connRecords, string(rtrim(line)))
		}
	case tagCISPEP:
		if n > 21 {
			pr.connRecords = append(pr.connRecords, string(rtrim(line)))
		}
	case tagEND:
		return true, nil
	}
	return false, err
}

func (pr *pdbReader) atom(line []byte, n int) error {
	if n < 77 { // should we allow a missing element?
		return pr.wrong("The line is too short to be correct")
	}
	chainName := readString(line[20:22])
	if pr.chain == nil || chainName != pr.chain.AuthName {
		if pr.model == nil {
			return pr.wrong("ATOM/HETATM between models")
		}
		// A chain that already had its TER gets a separate chain,
		// name + "_H", for the leftovers.
		name := chainName
		if pr.hasTer[pr.model.Name+"/"+chainName] {
			name += "_H"
		}
		pr.chain = pr.model.findOrAddChain(name)
		pr.chain.AuthName = chainName
		pr.resi = nil
	}

	rid := ResidueId{
		Snic: readSnic(line[22:27]),
		Name: readString(line[17:20]),
		// Non-standard but widely used segment identifier. It may be
		// part of a chain or a whole one; we just carry it.
		Segment: readString(line[72:76]),
	}
	if pr.resi == nil || !pr.resi.Matches(rid) {
		pr.resi = pr.chain.findOrAddResidue(rid)
	}

	var atom Atom
	atom.Name = readString(line[12:16])
	atom.Group = line[0] &^ 0x20
	if line[16] != ' ' {
		atom.AltLoc = line[16]
	}
	if n > 78 {
		c, err := readCharge(line[78], line[79])
		if err != nil {
			return pr.wrong(err.Error())
		}
		atom.Charge = c
	}
	atom.Element = ElementOf(line[76], line[77])
	atom.Pos.X = readDouble(line[30:38])
	atom.Pos.Y = readDouble(line[38:46])
	atom.Pos.Z = readDouble(line[46:54])
	atom.Occ = float32(readDouble(line[54:60]))
	atom.BIso = float32(readDouble(line[60:66]))
	pr.resi.Atoms = append(pr.resi.Atoms, atom)
	return nil
}

// anisou fills the anisotropic displacement of the last atom read.
// We take it that ANISOU always refers to the record directly above.
func (pr *pdbReader) anisou(line []byte) error {
	if pr.model == nil || pr.chain == nil || pr.resi == nil || len(pr.resi.Atoms) == 0 {
		return pr.wrong("ANISOU record not directly after ATOM/HETATM.")
	}
	atom := &pr.resi.Atoms[len(pr.resi.Atoms)-1]
	if atom.U11 != 0 {
		return pr.wrong("Duplicated ANISOU record or not directly after ATOM/HETATM.")
	}
	atom.U11 = float32(readInt(line[28:35])) * 1e-4
	atom.U22 = float32(readInt(line[35:42])) * 1e-4
	atom.U33 = float32(readInt(line[42:49])) * 1e-4
	atom.U12 = float32(readInt(line[49:56])) * 1e-4
	atom.U13 = float32(readInt(line[56:63])) * 1e-4
	atom.U23 = float32(readInt(line[63:70])) * 1e-4
	return nil
}

// readMatrixRow feeds one MTRIXn/SCALEn/ORIGXn line into the scratch
// transform. The digit in the record name picks the row; the returned
// row number lets the caller commit on 3. All three record kinds share
// the scratch, which the format gets away with because nobody
// interleaves them mid-triplet.
func readMatrixRow(tr *unitcell.Transform, line []byte, n int) int {
	if n < 46 {
		return 0
	}
	row := int(line[5]) - '0'
	if row >= 1 && row <= 3 {
		tr.Mat[row-1][0] = readDouble(line[10:20])
		tr.Mat[row-1][1] = readDouble(line[20:30])
		tr.Mat[row-1][2] = readDouble(line[30:40])
		v := readDouble(line[45:55])
		switch row {
		case 1:
			tr.Vec.X = v
		case 2:
			tr.Vec.Y = v
		case 3:
			tr.Vec.Z = v
		}
	}
	return row
}

// pdbMonths packs each month next to its two digit number. The
// trailing digits pad the table so the slice after any hit stays in
// bounds.
const pdbMonths = "JAN01FEB02MAR03APR04MAY05JUN06JUL07AUG08SEP09OCT10NOV11DEC122222"

// decodeDate turns the deposition date, "28-MAR-07" in PDB files, into
// ISO "2007-03-28". Two digit years of 70 and up count as 19xx, which
// will be wrong in 2070 and is not our problem. A month that is not in
// the table becomes "??".
func decodeDate(date []byte) string {
	mon := "??"
	if i := strings.Index(pdbMonths, string(date[3:6])); i >= 0 && i+5 <= len(pdbMonths) {
		mon = pdbMonths[i+3 : i+5]
	}
	century := "20"
	if date[7] > '6' {
		century = "19"
	}
	return century + string(date[7:9]) + "-" + mon + "-" + string(date[0:2])
}

// finalize runs the passes that need the complete tree: entity
// merging, polymer tagging of TERed chains, the structure's own
// housekeeping, then connection resolution.
func (pr *pdbReader) finalize() error {
	pr.ents.finalize()
	for _, mdl := range pr.st.Models {
		for _, ch := range mdl.Chains {
			if pr.hasTer[mdl.Name+"/"+ch.Name] {
				ch.Entity.Type = EntPolymer
			}
		}
	}
	if err := pr.st.finish(); err != nil {
		return err
	}
	processConn(pr.st, pr.connRecords)
	return nil
}

func basename(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// Read parses one entry from rdr. The name, minus any directory part,
// ends up in Structure.Name; give whatever is useful in messages.
func Read(rdr io.Reader, name string) (*Structure, error) {
	return readFromLineSource(newBufSource(rdr), name)
}

// ReadFile opens path and reads the entry in it, decompressing gzip
// transparently. Plain files are memory mapped; pipes and whatever
// else cannot be mapped go through buffered reads instead.
func ReadFile(path string) (*Structure, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var magic [2]byte
	if k, _ := fp.ReadAt(magic[:], 0); k == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := zopen.Wrap(fp)
		if err != nil {
			fp.Close()
			return nil, err
		}
		defer zr.Close()
		return readFromLineSource(newBufSource(zr), path)
	}
	if src, err := newMapSource(fp); err == nil {
		defer src.Close()
		return readFromLineSource(src, path)
	}
	defer fp.Close()
	return readFromLineSource(newBufSource(fp), path)
}

// Input is where an entry comes from, the way a command line sees it:
// maybe standard input, maybe something with its own line stream,
// maybe just a path.
type Input interface {
	IsStdin() bool
	// LineStream lets an Input bring its own record source. Returning
	// nil, nil means "use my Path instead".
	LineStream() (LineSource, error)
	Path() string
}

// PathInput is the Input for the common case: a path, where "-" or ""
// means standard input.
type PathInput string

func (p PathInput) IsStdin() bool                   { return p == "" || p == "-" }
func (p PathInput) LineStream() (LineSource, error) { return nil, nil }
func (p PathInput) Path() string                    { return string(p) }

// ReadInput reads an entry from wherever in points. Standard input is
// sniffed for gzip, so piping a .pdb.gz straight in works.
func ReadInput(in Input) (*Structure, error) {
	if in.IsStdin() {
		zr, err := zopen.WrapMaybe(io.NopCloser(os.Stdin))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return readFromLineSource(newBufSource(zr), "stdin")
	}
	ls, err := in.LineStream()
	if err != nil {
		return nil, err
	}
	if ls != nil {
		if c, ok := ls.(io.Closer); ok {
			defer c.Close()
		}
		return readFromLineSource(ls, in.Path())
	}
	return ReadFile(in.Path())
}
