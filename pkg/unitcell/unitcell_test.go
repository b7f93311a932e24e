// 3 Feb 2026

package unitcell_test

import (
	"math"
	"strings"
	"testing"

	. "github.com/andrew-torda/oldpdb/pkg/unitcell"
)

func approxEq(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

// The PDB convention puts a along x, so an orthorhombic cell must give
// diagonal matrices and a volume that is just the product of the edges.
func TestOrthorhombic(t *testing.T) {
	u, err := New(30, 40, 50, 90, 90, 90)
	if err != nil {
		t.Fatal("setting cell:", err)
	}
	if !approxEq(u.Volume, 60000, 1e-9) {
		t.Error("volume got", u.Volume, "wanted 60000")
	}
	wantOrth := Mat33{{30, 0, 0}, {0, 40, 0}, {0, 0, 50}}
	if !u.Orth.Mat.Approx(wantOrth, 1e-12) {
		t.Error("orth matrix wrong:", u.Orth.Mat)
	}
	if !approxEq(u.Frac.Mat[0][0], 1./30, 1e-15) {
		t.Error("frac[0][0] got", u.Frac.Mat[0][0])
	}
	if !u.IsCrystal() {
		t.Error("a real cell should say IsCrystal")
	}
}

// For any valid cell the volume has to match the determinant of the
// orthogonalization matrix, and frac has to invert orth.
func TestCellLaws(t *testing.T) {
	var cells = []struct {
		a, b, c, al, be, ga float64
	}{
		{30, 40, 50, 90, 90, 90},
		{27.07, 31.25, 33.76, 87.98, 108.0, 112.11}, // triclinic, 1lzt-ish
		{59.4, 68.7, 185.3, 90, 101.6, 90},          // monoclinic
		{52.3, 52.3, 78.9, 90, 90, 120},             // hexagonal
	}
	points := []Fractional{
		{0, 0, 0}, {0.5, 0.5, 0.5}, {0.1, 0.7, -0.3}, {1.25, -2.5, 0.75},
	}
	for _, cl := range cells {
		u, err := New(cl.a, cl.b, cl.c, cl.al, cl.be, cl.ga)
		if err != nil {
			t.Fatal("cell", cl, "gave", err)
		}
		if !approxEq(u.Volume, u.Orth.Mat.Det(), u.Volume*1e-12) {
			t.Error("cell", cl, "volume", u.Volume, "!= det", u.Orth.Mat.Det())
		}
		for _, f := range points {
			back := u.Fractionalize(u.Orthogonalize(f))
			if !approxEq(back.X, f.X, 1e-9) || !approxEq(back.Y, f.Y, 1e-9) ||
				!approxEq(back.Z, f.Z, 1e-9) {
				t.Error("cell", cl, "roundtrip", f, "gave", back)
			}
		}
	}
}

func TestImpossibleAngle(t *testing.T) {
	var u UnitCell = Default()
	err := u.Set(10, 10, 10, 90, 180, 90)
	if err == nil {
		t.Fatal("expected an error for a 180 degree angle")
	}
	if !strings.Contains(err.Error(), "Impossible angle") {
		t.Error("wrong error:", err)
	}
}

// A zero gamma means the CRYST1 record was empty or cut short. The
// cell must stay exactly as it was.
func TestPartialCryst(t *testing.T) {
	u := Default()
	if err := u.Set(10, 20, 30, 90, 90, 0); err != nil {
		t.Fatal("partial cell should not be an error:", err)
	}
	if u.A != 1 || u.Volume != 1 {
		t.Error("partial CRYST1 mutated the cell:", u.A, u.Volume)
	}
	if u.IsCrystal() {
		t.Error("placeholder cell claims to be a crystal")
	}
}

func TestNearestImage(t *testing.T) {
	u, err := New(10, 10, 10, 90, 90, 90)
	if err != nil {
		t.Fatal(err)
	}
	ref := Position{0.1, 0.1, 0.1}
	pos := Position{9.8, 9.8, 9.8}

	im := u.FindNearestImage(ref, pos, Unspecified)
	if im.Box != [3]int{1, 1, 1} {
		t.Error("box got", im.Box, "wanted 1,1,1")
	}
	if !approxEq(im.DistSq, 0.27, 1e-9) { // 3 * 0.3^2
		t.Error("distsq got", im.DistSq, "wanted 0.27")
	}
	if im.SameImage() {
		t.Error("an image one box over must not report SameImage")
	}
	if s := im.PDBSymbol(true); s != "1_666" {
		t.Error("pdb symbol got", s)
	}

	// Same ignores periodicity altogether.
	im = u.FindNearestImage(ref, pos, Same)
	if !approxEq(im.DistSq, 3*9.7*9.7, 1e-9) {
		t.Error("direct distsq got", im.DistSq)
	}
	// A point against itself has no different image in the home box.
	im = u.FindNearestImage(ref, ref, Different)
	if !math.IsInf(im.DistSq, 1) {
		t.Error("self distance under Different should be Inf, got", im.DistSq)
	}
}

// With a screw axis stored as an image, the nearest different image of
// a point on the axis is half a cell away, found via the image, not a
// box shift.
func TestNearestImageNcs(t *testing.T) {
	u, err := New(10, 10, 10, 90, 90, 90)
	if err != nil {
		t.Fatal(err)
	}
	twofoldScrew := FTransform{
		Mat: Mat33{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}},
		Vec: Vec3{0, 0.5, 0},
	}
	u.Images = append(u.Images, twofoldScrew)

	p := Position{0, 0, 0}
	im := u.FindNearestImage(p, p, Different)
	if im.SymID != 1 {
		t.Error("expected image 1 to win, got", im.SymID)
	}
	if !approxEq(im.Dist(), 5, 1e-9) {
		t.Error("screw image distance got", im.Dist())
	}
	if !approxEq(u.VolumePerImage(), 500, 1e-9) {
		t.Error("volume per image got", u.VolumePerImage())
	}
}

func TestSpecialPosition(t *testing.T) {
	u, err := New(10, 10, 10, 90, 90, 90)
	if err != nil {
		t.Fatal(err)
	}
	twofold := FTransform{Mat: Mat33{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}}
	screw := FTransform{
		Mat: Mat33{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}},
		Vec: Vec3{0, 0.5, 0},
	}

	u.Images = []FTransform{screw}
	if n := u.IsSpecialPosition(Position{0, 0, 0}, 0); n != 0 {
		t.Error("origin of a screw axis is general, got", n)
	}

	u.Images = []FTransform{twofold}
	if n := u.IsSpecialPosition(Position{0, 3, 0}, 0); n != 1 {
		t.Error("point on a two-fold should count 1, got", n)
	}
	if n := u.IsSpecialPosition(Position{1, 2, 3}, 0); n != 0 {
		t.Error("general position should count 0, got", n)
	}
}

func TestSetMatricesFromFract(t *testing.T) {
	u, err := New(30, 40, 50, 90, 90, 90)
	if err != nil {
		t.Fatal(err)
	}
	computed := u.Frac

	// SCALE rounded to 6 digits, as deposited files have it. Keep ours.
	rounded := computed
	rounded.Mat[0][0] = 0.033333
	u.SetMatricesFromFract(rounded)
	if u.ExplicitMatrices || u.Frac != computed {
		t.Error("rounded SCALE should not replace computed matrices")
	}

	// A genuinely different setting must be adopted along with its inverse.
	shifted := computed
	shifted.Vec = Vec3{0.5, 0, 0}
	u.SetMatricesFromFract(shifted)
	if !u.ExplicitMatrices {
		t.Fatal("non-standard SCALE not adopted")
	}
	prod := u.Frac.Mat.MultVec(Vec3{u.Orth.Mat[0][0], u.Orth.Mat[1][0], u.Orth.Mat[2][0]})
	if !approxEq(prod.X, 1, 1e-9) {
		t.Error("frac x orth first column got", prod)
	}

	// Junk SCALE on a placeholder cell is dropped silently.
	d := Default()
	junk := Transform{Mat: Mat33{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
	d.SetMatricesFromFract(junk)
	if d.ExplicitMatrices || d.Frac.Mat[0][0] != 1.0 {
		t.Error("suspicious SCALE adopted on placeholder cell")
	}
}

func TestFractionalHelpers(t *testing.T) {
	var wraps = []struct{ in, want Fractional }{
		{Fractional{1.25, -0.25, 3}, Fractional{0.25, 0.75, 0}},
		{Fractional{-1e-9, 0.999, 0.5}, Fractional{1 - 1e-9, 0.999, 0.5}},
	}
	for _, w := range wraps {
		got := w.in.WrapToUnit()
		if !approxEq(got.X, w.want.X, 1e-12) || !approxEq(got.Y, w.want.Y, 1e-12) ||
			!approxEq(got.Z, w.want.Z, 1e-12) {
			t.Error("wrap", w.in, "got", got, "want", w.want)
		}
	}
	m := Fractional{0.75, -0.75, 0.25}.MoveTowardZeroByOne()
	if m != (Fractional{-0.25, 0.25, 0.25}) {
		t.Error("move toward zero got", m)
	}
}

// Combining two transforms must be the same as applying them one
// after the other, and combining with the identity must change
// nothing.
func TestCombine(t *testing.T) {
	rot := Transform{
		Mat: Mat33{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		Vec: Vec3{1, 2, 3},
	}
	shift := Transform{Mat: Mat33{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Vec: Vec3{-0.5, 0.25, 4}}
	points := []Vec3{{0, 0, 0}, {1, -1, 2}, {0.3, 0.7, -9}}
	for _, p := range points {
		want := rot.Apply(shift.Apply(p))
		got := rot.Combine(shift).Apply(p)
		if !got.Approx(want, 1e-12) {
			t.Error("combine at", p, "got", got, "want", want)
		}
	}
	if Identity().Combine(rot) != rot || rot.Combine(Identity()) != rot {
		t.Error("combining with identity changed the transform")
	}
}

func BenchmarkFindNearestImage(b *testing.B) {
	u, _ := New(52.3, 52.3, 78.9, 90, 90, 120)
	u.Images = append(u.Images, FTransform{
		Mat: Mat33{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}},
		Vec: Vec3{0, 0, 0.5},
	})
	ref := Position{1.2, 3.4, 5.6}
	pos := Position{50.1, 49.8, 70.2}
	for i := 0; i < b.N; i++ {
		u.FindNearestImage(ref, pos, Unspecified)
	}
}
