// Package fetch visits a pdb website and downloads coordinates in the
// old format. The main point is to visit the web page and return a
// reader that can be used like the file readers.
// pdb europe files are at
// https://www.ebi.ac.uk/pdbe/entry-files/download/pdb5pti.ent
// while rcsb and pdb japan serve the same thing gzipped.
package fetch

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/andrew-torda/oldpdb/pkg/zopen"
)

var sites = []struct {
	urlBase   string
	urlPrefix string // goes in front of the code, "pdb" at some sites
	urlSuffix string
	gzipped   bool
}{
	{"https://files.rcsb.org/download/",
		"", ".pdb.gz", true},
	{"https://www.ebi.ac.uk/pdbe/entry-files/download/",
		"pdb", ".ent", false},
	{"http://ftp.pdbj.org/pub/pdb/data/structures/all/pdb/",
		"pdb", ".ent.gz", true},
}

// siteURL builds the address of an entry at one of the mirror sites.
// The pdbXXXX.ent style names want the code in lower case, so it is
// lowered for everybody. A siteNum outside the table is wrapped with a
// modulo rather than generating an error. This makes it easier to
// cycle through the sites or pick one at random.
func siteURL(acqCode string, siteNum int) (url string, gzipped bool) {
	siteNum %= len(sites)
	if siteNum < 0 {
		siteNum += len(sites)
	}
	s := sites[siteNum]
	return s.urlBase + s.urlPrefix + strings.ToLower(acqCode) + s.urlSuffix,
		s.gzipped
}

// Fetch is given a four letter pdb code. It goes to the protein data
// bank and returns a reader of the entry text. Sites return normal or
// gzipped data, but if it is a gzipping site, we call zopen to
// decompress and return that as the reader.
func Fetch(acqCode string, siteNum int) (io.ReadCloser, error) {
	if len(acqCode) != 4 {
		return nil, errors.New("acq code should be four char, not " + acqCode)
	}
	url, gzipped := siteURL(acqCode, siteNum)

	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		s := "Wanted " + acqCode + " using " + url
		t := ", got " + resp.Status
		resp.Body.Close()
		return nil, errors.New(s + t)
	}

	if gzipped {
		zrdr, err := zopen.Wrap(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		return zrdr, nil
	}
	return resp.Body, nil
}

// FetchTo downloads an entry and saves it, uncompressed, as fname.
func FetchTo(acqCode string, siteNum int, fname string) error {
	rdr, err := Fetch(acqCode, siteNum)
	if err != nil {
		return err
	}
	defer rdr.Close()
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fp, rdr); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
