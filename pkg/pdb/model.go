// 9 Feb 2026
// The structure tree: models, chains, residues, atoms, entities.
// The reader in read.go fills this in. Nothing here parses text.

package pdb

import (
	"errors"

	"github.com/andrew-torda/oldpdb/pkg/unitcell"
)

// EntityType says what kind of molecular species an entity is. The
// old format has no entity concept, so the reader reconstructs it from
// SEQRES and TER records and finish() fills in the rest.
type EntityType byte

const (
	EntUnknown EntityType = iota
	EntPolymer
	EntNonPolymer
	EntWater
)

func (et EntityType) String() string {
	switch et {
	case EntPolymer:
		return "polymer"
	case EntNonPolymer:
		return "non-polymer"
	case EntWater:
		return "water"
	}
	return "?"
}

// PolymerType distinguishes protein from nucleic acid chains. It is
// guessed from the monomer names in the declared sequence.
type PolymerType byte

const (
	PolyUnknown PolymerType = iota
	PolyPeptide
	PolyNucleotide
)

func (pt PolymerType) String() string {
	switch pt {
	case PolyPeptide:
		return "peptide"
	case PolyNucleotide:
		return "nucleotide"
	}
	return "?"
}

// Entity is one molecular species. Chains do not own their entity;
// several chains usually share one. The Structure owns the list.
type Entity struct {
	Id       string // serial, assigned when reading finishes
	Type     EntityType
	PolyType PolymerType
	Sequence []string // monomer names from SEQRES, in order
}

// SNIC is the sequence number + insertion code pair that, within a
// chain, identifies a residue. ICode is NUL when there is none.
type SNIC struct {
	SeqNum int
	ICode  byte
}

// ResidueId carries everything used to decide whether an incoming
// atom still belongs to the current residue.
type ResidueId struct {
	Snic    SNIC
	Segment string // columns 73-76, non-standard but common
	Name    string
}

// Matches is the identity test used while streaming atoms. All three
// parts must agree.
func (id ResidueId) Matches(o ResidueId) bool {
	return id.Snic == o.Snic && id.Segment == o.Segment && id.Name == o.Name
}

// Atom is a single atom record. U11..U23 stay zero unless an ANISOU
// record followed the atom.
type Atom struct {
	Name    string
	AltLoc  byte // NUL when column 17 is blank
	Group   byte // 'A' for ATOM, 'H' for HETATM
	Element Element
	Charge  int8
	Pos     unitcell.Position
	Occ     float32
	BIso    float32

	U11, U22, U33, U12, U13, U23 float32 // anisotropic B, Angstrom^2
}

// Residue owns its atoms. Conn carries back-reference tags like
// "1 disulf1" put there by the connection pass.
type Residue struct {
	ResidueId
	Atoms []Atom
	Conn  []string
	IsCis bool
}

// Chain. Name can differ from AuthName: when a chain is continued
// after its TER record, the leftovers (usually waters and ligands) go
// into a chain named AuthName + "_H". Keep the suffix; it is the only
// sign a chain was split.
type Chain struct {
	Name     string
	AuthName string
	Entity   *Entity
	Residues []*Residue
}

// FindResidue looks a residue up by sequence number, insertion code
// and name. Connection records carry no segment id, so the segment is
// not compared here.
func (ch *Chain) FindResidue(snic SNIC, name string) *Residue {
	for _, r := range ch.Residues {
		if r.Snic == snic && r.Name == name {
			return r
		}
	}
	return nil
}

func (ch *Chain) findOrAddResidue(id ResidueId) *Residue {
	for _, r := range ch.Residues {
		if r.ResidueId.Matches(id) {
			return r
		}
	}
	r := &Residue{ResidueId: id}
	ch.Residues = append(ch.Residues, r)
	return r
}

// ConnType is the kind of inter-residue connection.
type ConnType byte

const (
	ConnDisulf ConnType = iota
	ConnCisPep
)

// Connection ties two residues together. The pointers refer into the
// chains of one model and stay valid as long as the Structure is not
// modified, which it never is after reading.
type Connection struct {
	Id         string
	Type       ConnType
	Res1, Res2 *Residue
}

// Model is one coordinate set. NMR entries have many, crystal
// structures one. Models share chain names but never chain objects.
type Model struct {
	Name        string
	Chains      []*Chain
	Connections []Connection
}

// FindChain returns the chain with the given name, or nil.
func (m *Model) FindChain(name string) *Chain {
	for _, ch := range m.Chains {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

func (m *Model) findOrAddChain(name string) *Chain {
	if ch := m.FindChain(name); ch != nil {
		return ch
	}
	ch := &Chain{Name: name}
	m.Chains = append(m.Chains, ch)
	return ch
}

// NcsOp is one non-crystallographic symmetry operation from MTRIX
// records. Given says whether the deposited coordinates already
// contain the transformed copy.
type NcsOp struct {
	Id    string
	Given bool
	Tr    unitcell.Transform
}

// Structure is the root of everything read from one entry.
type Structure struct {
	Name     string            // basename of whatever we read
	Info     map[string]string // metadata under mmCIF-style keys
	Cell     unitcell.UnitCell
	SgHM     string // space group symbol, stored, never interpreted
	Origx    unitcell.Transform
	Ncs      []NcsOp
	Models   []*Model
	Entities []*Entity
}

// NewStructure gives a Structure with the placeholder cell and origin
// transforms, ready for the reader.
func NewStructure() *Structure {
	return &Structure{
		Info:  make(map[string]string),
		Cell:  unitcell.Default(),
		Origx: unitcell.Identity(),
	}
}

// FindOrAddModel returns the model of that name, making it if needed.
func (st *Structure) FindOrAddModel(name string) *Model {
	for _, m := range st.Models {
		if m.Name == name {
			return m
		}
	}
	m := &Model{Name: name}
	st.Models = append(st.Models, m)
	return m
}

// SetupCellImages hands the cell the NCS operations whose copies are
// not part of the deposited coordinates, converted to fractional
// space, so that image searches will consider them. Operations marked
// given are already in the coordinates and would only double atoms up.
// Space group symmetry would belong here too, but we store the symbol
// without interpreting it.
func (st *Structure) SetupCellImages() {
	u := &st.Cell
	for _, op := range st.Ncs {
		if !op.Given {
			u.Images = append(u.Images,
				unitcell.FTransform(u.Frac.Combine(op.Tr).Combine(u.Orth)))
		}
	}
}

// NAtoms counts atoms over all models, chains and residues. Handy in
// tests and for quick summaries.
func (st *Structure) NAtoms() (n int) {
	for _, mdl := range st.Models {
		for _, ch := range mdl.Chains {
			for _, r := range ch.Residues {
				n += len(r.Atoms)
			}
		}
	}
	return n
}

// water residue names one meets in deposited files
func isWaterName(name string) bool {
	return name == "HOH" || name == "DOD" || name == "WAT"
}

// finish runs after the last record: check every chain got an entity,
// then classify what streaming could not know. Chains of nothing but
// water become Water entities, other chains without a SEQRES become
// NonPolymer, and polymer entities get a guess at their polymer type.
func (st *Structure) finish() error {
	for _, mdl := range st.Models {
		for _, ch := range mdl.Chains {
			if ch.Entity == nil {
				return errors.New("chain " + ch.Name + " left without entity")
			}
		}
	}
	for _, mdl := range st.Models {
		for _, ch := range mdl.Chains {
			if ch.Entity.Type != EntUnknown {
				continue
			}
			water, het := true, true
			for _, r := range ch.Residues {
				if !isWaterName(r.Name) {
					water = false
				}
				for i := range r.Atoms {
					if r.Atoms[i].Group != 'H' {
						het = false
					}
				}
			}
			if water && len(ch.Residues) > 0 {
				ch.Entity.Type = EntWater
			} else if het && len(ch.Residues) > 0 {
				ch.Entity.Type = EntNonPolymer
			}
		}
	}
	for _, ent := range st.Entities {
		if ent.Type == EntPolymer && len(ent.Sequence) > 0 {
			ent.PolyType = classifySequence(ent.Sequence)
		}
	}
	return nil
}

// the twenty standard amino acids plus the usual selenomethionine
var peptideMonomers = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"MSE": true,
}

var nucleotideMonomers = map[string]bool{
	"A": true, "C": true, "G": true, "U": true, "I": true,
	"DA": true, "DC": true, "DG": true, "DT": true, "DU": true, "DI": true,
}

// classifySequence votes on the monomer vocabulary. More than half of
// a kind decides; anything murkier stays unknown.
func classifySequence(seq []string) PolymerType {
	var pep, nuc int
	for _, mon := range seq {
		if peptideMonomers[mon] {
			pep++
		} else if nucleotideMonomers[mon] {
			nuc++
		}
	}
	switch {
	case 2*pep > len(seq):
		return PolyPeptide
	case 2*nuc > len(seq):
		return PolyNucleotide
	}
	return PolyUnknown
}
