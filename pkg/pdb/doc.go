// 9 Feb 2026
// Most of the archive still moves around as flat PDB files, whatever
// the wwPDB says about mmCIF being the master format.

// Package pdb reads the legacy fixed-column PDB format into a
// Structure. The reader takes files, readers or standard input,
// decompresses gzip on the fly, and keeps exactly the records a
// coordinate file can be trusted for: atoms, models, chains, the
// crystallographic frame and the connection annotations. It is a
// reader, not a validator. Records it does not know are skipped and
// fields are read by column, the way the format was defined.
package pdb
