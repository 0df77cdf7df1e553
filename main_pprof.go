//go:build !no_pprof
// +build !no_pprof

// Profiling of the fill itself: the CPU profile brackets the search (not
// the dictionary read or grid build), and the heap snapshot is taken with
// the pattern caches at their post-search size. Pairs with -perf: profiles
// are logged with the step count so they line up with the perf JSON.

package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"fortio.org/log"
	"xwfill.io/xwfill/xw"
)

var (
	searchCPUProfile = flag.String("profile-cpu", "", "write a cpu profile of the search to `file`")
	searchMemProfile = flag.String("profile-mem", "", "write a post-search heap profile to `file`")
)

func init() {
	profileStart = searchProfileStart
	profileEnd = searchProfileEnd
}

func searchProfileStart() int {
	if *searchCPUProfile == "" {
		return 0
	}
	f, err := os.Create(*searchCPUProfile)
	if err != nil {
		return log.FErrf("can't open file for cpu profile: %v", err)
	}
	if err = pprof.StartCPUProfile(f); err != nil {
		return log.FErrf("can't start cpu profile: %v", err)
	}
	log.Infof("Profiling search cpu to %s", *searchCPUProfile)
	return 0
}

func searchProfileEnd(res xw.Result) int {
	if *searchCPUProfile != "" {
		pprof.StopCPUProfile()
		log.Infof("Wrote cpu profile of %d-step search (%.2fs cpu) to %s",
			res.Steps, res.CPUTime, *searchCPUProfile)
	}
	if *searchMemProfile == "" {
		return 0
	}
	f, err := os.Create(*searchMemProfile)
	if err != nil {
		return log.FErrf("can't open file for mem profile: %v", err)
	}
	if err = pprof.WriteHeapProfile(f); err != nil {
		return log.FErrf("can't write mem profile: %v", err)
	}
	f.Close()
	log.Infof("Wrote post-search heap profile to %s", *searchMemProfile)
	return 0
}
