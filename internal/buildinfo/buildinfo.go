// Package buildinfo carries the version stamped into the mathstep binary.
//
//	go build -ldflags "-X mathstep/internal/buildinfo.Version=v0.3.0 -X mathstep/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var vcsOnce sync.Once

// fillFromVCS uses the revision the go tool embeds when ldflags did not stamp one.
func fillFromVCS() {
	vcsOnce.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "unknown" && len(s.Value) >= 7 {
					Commit = s.Value[:7]
				}
			case "vcs.time":
				if Date == "unknown" {
					Date = s.Value
				}
			}
		}
	})
}

// Short returns a compact build identifier for the CLI banner and logs.
func Short() string {
	fillFromVCS()
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return "dev-" + Commit
	}
	return "dev"
}

// String is the full "version (commit, date)" line.
func String() string {
	fillFromVCS()
	return fmt.Sprintf("%s (commit %s, built %s)", Short(), Commit, Date)
}
