// 12 Feb 2026
// pdbscan reads every entry under the given files and directories and
// reports the ones that do not parse. It is for checking a local copy
// of the archive, so it wants to be parallel and it has profiling
// hooks for looking at where the time goes.

package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"

	"github.com/Jeffail/tunny"
	"github.com/andrew-torda/oldpdb/pkg/cmmn"
	"github.com/andrew-torda/oldpdb/pkg/pdb"
)

const nWorkerDflt = 3

type result struct {
	path   string
	natoms int
	err    error
}

// wantFile says whether a name looks like an old format coordinate
// file, compressed or not.
func wantFile(name string) bool {
	name = strings.TrimSuffix(name, ".gz")
	return strings.HasSuffix(name, ".pdb") || strings.HasSuffix(name, ".ent")
}

// collectPaths expands the arguments. Directories are walked and
// filtered by suffix; files named directly are taken as they are.
func collectPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && wantFile(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func mymain() (retval int) {
	var nWorker int
	var verbose bool
	var cpuprof, memprof string
	flag.IntVar(&nWorker, "n", nWorkerDflt, "number of parallel readers")
	flag.BoolVar(&verbose, "v", false, "print a line per file read")
	flag.StringVar(&cpuprof, "c", "", "write cpuprofile to file")
	flag.StringVar(&memprof, "m", "", "write memprofile to file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file_or_dir [more...]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return cmmn.ExitUsageError
	}

	paths, err := collectPaths(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cmmn.ExitFailure
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to read")
		return cmmn.ExitFailure
	}

	if cpuprof != "" {
		fprof, err := os.Create(cpuprof)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return cmmn.ExitFailure
		}
		if err := pprof.StartCPUProfile(fprof); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return cmmn.ExitFailure
		}
		defer fprof.Close()
		defer pprof.StopCPUProfile()
	}

	pool := tunny.NewFunc(nWorker, func(payload interface{}) interface{} {
		path := payload.(string)
		st, err := pdb.ReadFile(path)
		if err != nil {
			return result{path: path, err: err}
		}
		return result{path: path, natoms: st.NAtoms()}
	})
	defer pool.Close()

	c := make(chan string, 200)
	go func() {
		for _, p := range paths {
			c <- p
		}
		close(c)
	}()

	// Process blocks until a pool worker is free, so one feeder per
	// worker keeps the pool full without queueing everything up.
	res := make(chan result)
	var wg sync.WaitGroup
	for i := 0; i < nWorker; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range c {
				res <- pool.Process(path).(result)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(res)
	}()

	var nOk, nBad, totAtoms int
	for r := range res {
		if r.err != nil {
			fmt.Fprintln(os.Stderr, "ERROR on", r.path, ":", r.err)
			nBad++
			continue
		}
		nOk++
		totAtoms += r.natoms
		if verbose {
			fmt.Println(r.path, r.natoms, "atoms")
		}
	}
	fmt.Printf("Totals %d files ok, %d failed, %d atoms\n", nOk, nBad, totAtoms)

	if memprof != "" {
		runtime.GC()
		cprof, err := os.Create(memprof)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return cmmn.ExitFailure
		}
		if err := pprof.WriteHeapProfile(cprof); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return cmmn.ExitFailure
		}
		cprof.Close()
	}

	if nBad != 0 {
		return cmmn.ExitFailure
	}
	return cmmn.ExitSuccess
}

func main() {
	os.Exit(mymain())
}
