// 10 Feb 2026
// SSBOND and CISPEP records usually come before the atoms they talk
// about, so the reader buffers them and this pass runs once the tree
// is complete. References that do not resolve are dropped without
// comment. Deposited files regularly point at residues that were
// removed, and stopping over those would make half the archive
// unreadable.

package pdb

import "strconv"

// processConn resolves the buffered connection records against every
// model. The disulfide counter runs over records and models together,
// and it advances whenever both chains exist, even if a residue does
// not, which keeps the ids aligned with the deposited numbering.
func processConn(st *Structure, connRecords []string) {
	disulfCount := 0
	var r [bufSize]byte
	for _, record := range connRecords {
		for i := range r {
			r[i] = 0
		}
		copy(r[:], record)
		rid := ResidueId{Snic: readSnic(r[17:22]), Name: readString(r[11:14])}
		switch r[0] {
		case 'S', 's': // SSBOND
			rid2 := ResidueId{Snic: readSnic(r[31:36]), Name: readString(r[25:28])}
			for _, model := range st.Models {
				chain1 := model.FindChain(readString(r[14:16]))
				chain2 := model.FindChain(readString(r[28:30]))
				if chain1 == nil || chain2 == nil {
					continue
				}
				disulfCount++
				c := Connection{
					Id:   "disulf" + strconv.Itoa(disulfCount),
					Type: ConnDisulf,
					Res1: chain1.FindResidue(rid.Snic, rid.Name),
					Res2: chain2.FindResidue(rid2.Snic, rid2.Name),
				}
				if c.Res1 != nil && c.Res2 != nil {
					c.Res1.Conn = append(c.Res1.Conn, "1 "+c.Id)
					c.Res2.Conn = append(c.Res2.Conn, "2 "+c.Id)
					model.Connections = append(model.Connections, c)
				}
			}
		case 'C', 'c': // CISPEP
			for _, model := range st.Models {
				if chain := model.FindChain(readString(r[14:16])); chain != nil {
					if res := chain.FindResidue(rid.Snic, rid.Name); res != nil {
						res.IsCis = true
					}
				}
			}
		}
	}
}
