// 12 Feb 2026
// pdbinfo prints a summary of entries in the old pdb format: header
// metadata, the cell, entities and the size of the coordinate tree.
// Arguments are filenames, "-" for standard input, or acquisition
// codes with -f to pull entries from an archive site.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andrew-torda/oldpdb/pkg/cmmn"
	"github.com/andrew-torda/oldpdb/pkg/fetch"
	"github.com/andrew-torda/oldpdb/pkg/pdb"
)

func getStruct(arg string, netFetch bool, mirror int) (*pdb.Structure, error) {
	if !netFetch {
		return pdb.ReadInput(pdb.PathInput(arg))
	}
	rdr, err := fetch.Fetch(arg, mirror)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return pdb.Read(rdr, arg)
}

func describe(st *pdb.Structure, verbose bool) {
	fmt.Print(st.Name)
	if kw := st.Info["_struct_keywords.pdbx_keywords"]; kw != "" {
		fmt.Print("  ", kw)
	}
	if date := st.Info["_pdbx_database_status.recvd_initial_deposition_date"]; date != "" {
		fmt.Print("  deposited ", date)
	}
	fmt.Println()
	if title := st.Info["_struct.title"]; title != "" {
		fmt.Println("  title:", title)
	}
	if method := st.Info["_exptl.method"]; method != "" {
		fmt.Println("  method:", method)
	}

	u := &st.Cell
	if u.IsCrystal() {
		fmt.Printf("  cell: %g %g %g  %g %g %g  %s  volume %.1f\n",
			u.A, u.B, u.C, u.Alpha, u.Beta, u.Gamma, st.SgHM, u.Volume)
	} else {
		fmt.Println("  no crystal cell")
	}
	if len(st.Ncs) != 0 {
		nGiven := 0
		for _, op := range st.Ncs {
			if op.Given {
				nGiven++
			}
		}
		fmt.Printf("  ncs: %d operations, %d still to be applied\n",
			len(st.Ncs), len(st.Ncs)-nGiven)
	}

	for _, ent := range st.Entities {
		fmt.Printf("  entity %s: %s", ent.Id, ent.Type)
		if ent.Type == pdb.EntPolymer && ent.PolyType != pdb.PolyUnknown {
			fmt.Printf(", %s, %d monomers declared", ent.PolyType, len(ent.Sequence))
		}
		fmt.Println()
	}

	for _, mdl := range st.Models {
		nres, natom := 0, 0
		for _, ch := range mdl.Chains {
			nres += len(ch.Residues)
			for _, r := range ch.Residues {
				natom += len(r.Atoms)
			}
		}
		fmt.Printf("  model %s: %d chains, %d residues, %d atoms",
			mdl.Name, len(mdl.Chains), nres, natom)
		if n := len(mdl.Connections); n != 0 {
			fmt.Printf(", %d disulfide bridges", n)
		}
		fmt.Println()
		if !verbose {
			continue
		}
		for _, ch := range mdl.Chains {
			natom = 0
			for _, r := range ch.Residues {
				natom += len(r.Atoms)
			}
			fmt.Printf("    chain %-4s entity %s, %d residues, %d atoms\n",
				ch.Name, ch.Entity.Id, len(ch.Residues), natom)
		}
	}
}

func mymain() (retval int) {
	var netFetch, verbose bool
	var mirror int
	flag.BoolVar(&netFetch, "f", false, "arguments are acquisition codes, fetch them")
	flag.IntVar(&mirror, "m", 0, "archive site to fetch from")
	flag.BoolVar(&verbose, "v", false, "say something about each chain")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file [file...]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return cmmn.ExitUsageError
	}

	retval = cmmn.ExitSuccess
	for _, arg := range flag.Args() {
		st, err := getStruct(arg, netFetch, mirror)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ERROR on", arg, ":", err)
			retval = cmmn.ExitFailure
			continue
		}
		describe(st, verbose)
	}
	return retval
}

func main() {
	os.Exit(mymain())
}
