// 12 Feb 2026
// pdbcontact lists close contacts between selected atoms of one
// entry. With a crystal cell the nearest periodic image is used for
// each pair, and NCS operations that are not part of the deposited
// coordinates count as extra images.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andrew-torda/matrix"
	"github.com/andrew-torda/oldpdb/pkg/cmmn"
	"github.com/andrew-torda/oldpdb/pkg/pdb"
	"github.com/andrew-torda/oldpdb/pkg/unitcell"
)

type site struct {
	label string
	pos   unitcell.Position
}

// pickSites pulls out the atoms we measure between, at most one per
// residue. Alternate conformations beyond the first are skipped.
func pickSites(mdl *pdb.Model, atomName string) []site {
	var sites []site
	for _, ch := range mdl.Chains {
		for _, r := range ch.Residues {
			for i := range r.Atoms {
				a := &r.Atoms[i]
				if a.Name != atomName || (a.AltLoc != 0 && a.AltLoc != 'A') {
					continue
				}
				l := fmt.Sprintf("%-2s %-3s %4d", ch.Name, r.Name, r.Snic.SeqNum)
				if r.Snic.ICode != 0 {
					l += string(r.Snic.ICode)
				}
				sites = append(sites, site{label: l, pos: a.Pos})
				break
			}
		}
	}
	return sites
}

func mymain() (retval int) {
	var cutoff float64
	var atomName string
	var noNcs, prtMat bool
	flag.Float64Var(&cutoff, "d", 8.0, "contact cutoff in Angstrom")
	flag.StringVar(&atomName, "a", "CA", "name of the atom to measure between")
	flag.BoolVar(&noNcs, "n", false, "ignore ncs images")
	flag.BoolVar(&prtMat, "p", false, "print the whole distance matrix")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Expected one file. Got", flag.NArg())
		flag.Usage()
		return cmmn.ExitUsageError
	}

	st, err := pdb.ReadInput(pdb.PathInput(flag.Arg(0)))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitFailure
	}
	if !noNcs {
		st.SetupCellImages()
	}
	u := &st.Cell
	if n := len(u.Images); n != 0 {
		fmt.Printf("%d ncs images, %.1f A^3 of cell volume per image\n",
			n, u.VolumePerImage())
	}
	if len(st.Models) == 0 {
		fmt.Fprintln(os.Stderr, "no coordinates in", st.Name)
		return cmmn.ExitFailure
	}
	sites := pickSites(st.Models[0], atomName)
	if len(sites) == 0 {
		fmt.Fprintln(os.Stderr, "no", atomName, "atoms in", st.Name)
		return cmmn.ExitFailure
	}
	fmt.Printf("%s: %d %s sites, cutoff %.2f\n", st.Name, len(sites), atomName, cutoff)

	dm := matrix.NewFMatrix2d(len(sites), len(sites))
	ncontact := 0
	for i := range sites {
		for j := i + 1; j < len(sites); j++ {
			im := u.FindNearestImage(sites[i].pos, sites[j].pos, unitcell.Unspecified)
			d := im.Dist()
			dm.Mat[i][j], dm.Mat[j][i] = float32(d), float32(d)
			if d > cutoff {
				continue
			}
			ncontact++
			if im.SameImage() {
				fmt.Printf("%s -- %s %6.2f\n", sites[i].label, sites[j].label, d)
			} else {
				fmt.Printf("%s -- %s %6.2f via %s\n",
					sites[i].label, sites[j].label, d, im.PDBSymbol(true))
			}
		}
	}
	fmt.Println(ncontact, "contacts")
	for i := range sites {
		if n := u.IsSpecialPosition(sites[i].pos, 0); n > 0 {
			fmt.Printf("%s sits on a special position, %d images\n",
				sites[i].label, n)
		}
	}
	if prtMat {
		fmt.Print(dm.String())
	}
	return cmmn.ExitSuccess
}

func main() {
	os.Exit(mymain())
}
