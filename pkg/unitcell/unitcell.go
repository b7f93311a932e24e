// 2 Feb 2026
// Package unitcell keeps the six cell parameters from a CRYST1 record
// and everything one derives from them: the orthogonalization and
// fractionalization matrices, reciprocal parameters, and queries for
// the nearest periodic image of a point. Nothing here knows about PDB
// lines. The reader package fills us in and asks questions later.
//
// The conventions are the ones crystallographic programs agree on:
// cell axis a lies along Cartesian x and c* along z (ITfC volume B,
// section 2.2.5). Volume and reciprocal parameters follow Giacovazzo,
// Fundamentals of Crystallography, pages 62 and 64.
package unitcell

import (
	"math"
	"strconv"
)

// Error is a constant error type, so our errors can be declared const.
type Error string

func (e Error) Error() string { return string(e) }

// ErrImpossibleAngle comes back when a cell angle is a multiple of 180
// degrees, which would flatten the cell.
const ErrImpossibleAngle = Error("Impossible angle - N*180deg.")

// specialPosDflt is the cutoff in Angstrom below which a symmetry mate
// counts as sitting on top of the original atom.
const specialPosDflt = 0.8

// SymmetryImage says which images of a point a nearest-image search
// may consider.
type SymmetryImage byte

const (
	// Same restricts the search to the very same image (direct distance).
	Same SymmetryImage = iota
	// Different excludes the identity image at zero box offset.
	Different
	// Unspecified takes whatever is nearest.
	Unspecified
)

// NearbyImage is the answer from FindNearestImage: squared distance,
// the integer box shift in fractional space and which symmetry image
// won (0 means the identity).
type NearbyImage struct {
	DistSq float64
	Box    [3]int
	SymID  int
}

// Dist returns the real distance. We store it squared.
func (im NearbyImage) Dist() float64 { return math.Sqrt(im.DistSq) }

// SameImage is true if the winner was the original image in the
// original box.
func (im NearbyImage) SameImage() bool {
	return im.Box[0] == 0 && im.Box[1] == 0 && im.Box[2] == 0 && im.SymID == 0
}

// PDBSymbol formats the image the way PDB files express symmetry
// operations, "1_555" with the underscore, "1555" without. Each box
// digit counts up or down from 5.
func (im NearbyImage) PDBSymbol(underscore bool) string {
	nnn := [3]byte{'5', '5', '5'}
	for i := 0; i < 3; i++ {
		nnn[i] += byte(im.Box[i])
	}
	s := strconv.Itoa(im.SymID + 1)
	if underscore {
		s += "_"
	}
	return s + string(nnn[:])
}

// UnitCell is the cell with its derived quantities. The zero value is
// not usable. Start from Default() or Set().
// Images holds transforms (crystallographic or non-crystallographic)
// in fractional space whose copies of the contents should be
// considered by FindNearestImage and IsSpecialPosition. We do not fill
// it in; that is the caller's business since it needs space group
// decoding we do not do.
type UnitCell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64

	Orth, Frac Transform
	Volume     float64

	// reciprocal cell lengths and cosines of reciprocal angles
	AR, BR, CR                     float64
	CosAlphaR, CosBetaR, CosGammaR float64

	ExplicitMatrices bool
	Images           []FTransform
}

// Default is the placeholder cell non-crystalline entries are supposed
// to carry: 1x1x1 with right angles and identity matrices.
func Default() UnitCell {
	return UnitCell{
		A: 1, B: 1, C: 1, Alpha: 90, Beta: 90, Gamma: 90,
		Orth: Identity(), Frac: Identity(),
		Volume: 1, AR: 1, BR: 1, CR: 1,
	}
}

// New builds a cell from the six parameters.
func New(a, b, c, alpha, beta, gamma float64) (UnitCell, error) {
	u := Default()
	err := u.Set(a, b, c, alpha, beta, gamma)
	return u, err
}

// IsCrystal distinguishes real crystal cells from the fake 1x1x1 ones
// deposited with NMR structures. Some entries set the fake cell but a
// real-looking scale matrix, or the other way around, so both the a
// edge and frac[0][0] are checked.
func (u *UnitCell) IsCrystal() bool { return u.A != 1.0 && u.Frac.Mat[0][0] != 1.0 }

// cossin gives cosine and sine with exact values at 90 degrees, so
// right angles survive the trip through floating point untouched.
func cossin(deg float64) (float64, float64) {
	if deg == 90. {
		return 0., 1.
	}
	const deg2rad = math.Pi / 180.0
	return math.Cos(deg2rad * deg), math.Sin(deg2rad * deg)
}

// Set stores the six parameters and recomputes everything derived.
// A zero gamma means an empty or partial CRYST1 record (3iyp does
// this); we leave the cell alone rather than fail.
func (u *UnitCell) Set(a, b, c, alpha, beta, gamma float64) error {
	if gamma == 0.0 {
		return nil
	}
	u.A, u.B, u.C = a, b, c
	u.Alpha, u.Beta, u.Gamma = alpha, beta, gamma
	return u.CalculateProperties()
}

// CalculateProperties fills in volume, reciprocal parameters and the
// orthogonalization and fractionalization matrices. If matrices were
// adopted from SCALE records (ExplicitMatrices), those win and only
// the scalar properties are recomputed.
func (u *UnitCell) CalculateProperties() error {
	cosAlpha, sinAlpha := cossin(u.Alpha)
	cosBeta, sinBeta := cossin(u.Beta)
	cosGamma, sinGamma := cossin(u.Gamma)
	if sinAlpha == 0 || sinBeta == 0 || sinGamma == 0 {
		return ErrImpossibleAngle
	}

	u.Volume = u.A * u.B * u.C *
		math.Sqrt(1-cosAlpha*cosAlpha-cosBeta*cosBeta-cosGamma*cosGamma+
			2*cosAlpha*cosBeta*cosGamma)

	u.AR = u.B * u.C * sinAlpha / u.Volume
	u.BR = u.A * u.C * sinBeta / u.Volume
	u.CR = u.A * u.B * sinGamma / u.Volume
	cosAlphaRSinBeta := (cosBeta*cosGamma - cosAlpha) / sinGamma
	u.CosAlphaR = cosAlphaRSinBeta / sinBeta
	u.CosBetaR = (cosAlpha*cosGamma - cosBeta) / (sinAlpha * sinGamma)
	u.CosGammaR = (cosAlpha*cosBeta - cosGamma) / (sinAlpha * sinBeta)

	if u.ExplicitMatrices {
		return nil
	}

	sinAlphaR := math.Sqrt(1.0 - u.CosAlphaR*u.CosAlphaR)
	u.Orth.Mat = Mat33{
		{u.A, u.B * cosGamma, u.C * cosBeta},
		{0., u.B * sinGamma, -u.C * cosAlphaRSinBeta},
		{0., 0., u.C * sinBeta * sinAlphaR},
	}
	u.Orth.Vec = Vec3{}

	o12 := -cosGamma / (sinGamma * u.A)
	o13 := -(cosGamma*cosAlphaRSinBeta + cosBeta*sinGamma) /
		(sinAlphaR * sinBeta * sinGamma * u.A)
	o23 := u.CosAlphaR / (sinAlphaR * sinGamma * u.B)
	u.Frac.Mat = Mat33{
		{1 / u.A, o12, o13},
		{0., 1 / u.Orth.Mat[1][1], o23},
		{0., 0., 1 / u.Orth.Mat[2][2]},
	}
	u.Frac.Vec = Vec3{}
	return nil
}

// SetMatricesFromFract offers a fractionalization matrix read from
// SCALE records. The deposited matrices usually carry fewer digits
// than what we computed from the cell, so if they agree within
// rounding we keep our own. A SCALE matrix that contradicts a
// non-crystal cell in a suspicious way (zero or huge leading element)
// is taken for deposition junk and dropped. Anything else is adopted
// as authoritative, inverse and all.
func (u *UnitCell) SetMatricesFromFract(f Transform) {
	if f.Mat.Approx(u.Frac.Mat, 5e-6) && f.Vec.Approx(u.Frac.Vec, 1e-6) {
		return
	}
	if u.Frac.Mat[0][0] == 1.0 && (f.Mat[0][0] == 0.0 || f.Mat[0][0] > 1.0) {
		return
	}
	u.Frac = f
	u.Orth = f.Inverse()
	u.ExplicitMatrices = true
}

// Orthogonalize turns fractional coordinates into Angstroms.
func (u *UnitCell) Orthogonalize(f Fractional) Position {
	return Position(u.Orth.Apply(Vec3(f)))
}

// Fractionalize turns Angstroms into fractions of the cell edges.
func (u *UnitCell) Fractionalize(p Position) Fractional {
	return Fractional(u.Frac.Apply(Vec3(p)))
}

// orthogonalizeDiff measures a fractional difference vector in
// Angstroms. Only the matrix is applied; a translation has no
// business in a difference.
func (u *UnitCell) orthogonalizeDiff(d Fractional) Vec3 {
	return u.Orth.Mat.MultVec(Vec3(d))
}

// VolumePerImage is the cell volume divided among the identity and the
// stored images. NaN for non-crystals, where volume means nothing.
func (u *UnitCell) VolumePerImage() float64 {
	if !u.IsCrystal() {
		return math.NaN()
	}
	return u.Volume / float64(1+len(u.Images))
}

// searchPbcImages moves diff into the box nearest zero, measures it in
// Angstroms and updates im if this image is the best so far. The box
// that did it is recorded. PBC = periodic boundary conditions.
func (u *UnitCell) searchPbcImages(diff Fractional, im *NearbyImage) bool {
	box := [3]int{iround(diff.X), iround(diff.Y), iround(diff.Z)}
	diff.X -= float64(box[0])
	diff.Y -= float64(box[1])
	diff.Z -= float64(box[2])
	dsq := u.orthogonalizeDiff(diff).LengthSq()
	if dsq < im.DistSq {
		im.DistSq = dsq
		im.Box = box
		return true
	}
	return false
}

// FindNearestImage looks for the copy of pos nearest to ref, trying
// every stored image in every neighbouring box. With Same (or outside
// a crystal) only the direct distance is considered; Different throws
// away the identity image sitting in the home box, which is what you
// want when looking for crystal contacts of an atom with itself.
func (u *UnitCell) FindNearestImage(ref, pos Position, sym SymmetryImage) NearbyImage {
	var im NearbyImage
	im.DistSq = ref.DistSq(pos)
	if sym == Same || !u.IsCrystal() {
		if sym == Different || im.DistSq == 0.0 {
			im.DistSq = math.Inf(1)
		}
		return im
	}
	fpos := u.Fractionalize(pos)
	fref := u.Fractionalize(ref)
	u.searchPbcImages(fpos.Sub(fref), &im)
	if (sym == Different || im.DistSq == 0.0) &&
		im.Box[0] == 0 && im.Box[1] == 0 && im.Box[2] == 0 {
		im.DistSq = math.Inf(1)
	}
	for n := range u.Images {
		if u.searchPbcImages(u.Images[n].Apply(fpos).Sub(fref), &im) {
			im.SymID = n + 1
		}
	}
	return im
}

// IsSpecialPosition counts images that map pos onto (nearly) itself:
// 0 for a general position, 1 on a two-fold axis, 3 on a four-fold.
// maxDist <= 0 gets the usual 0.8 Angstrom cutoff.
func (u *UnitCell) IsSpecialPosition(pos Position, maxDist float64) int {
	if maxDist <= 0 {
		maxDist = specialPosDflt
	}
	maxDistSq := maxDist * maxDist
	n := 0
	fpos := u.Fractionalize(pos)
	for _, image := range u.Images {
		d := image.Apply(fpos).Sub(fpos)
		if u.orthogonalizeDiff(d).LengthSq() < maxDistSq {
			n++
		}
	}
	return n
}
