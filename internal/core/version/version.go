// Package version reports build metadata for the binaries
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// BuildInfo describes one binary build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// set with -ldflags "-X disasterresponse/internal/core/version.version=v1.2.0
// -X disasterresponse/internal/core/version.commit=abcd -X disasterresponse/internal/core/version.date=2026-01-02"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	mu      sync.RWMutex
	service = "disasterresponse"
)

// SetService names the running binary in Info
func SetService(name string) {
	mu.Lock()
	defer mu.Unlock()
	service = name
}

// Info returns ldflags values, falling back to the vcs stamp of the module build
func Info() BuildInfo {
	mu.RLock()
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	mu.RUnlock()

	if info, ok := debug.ReadBuildInfo(); ok {
		bi.Go = info.GoVersion
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if bi.Commit == "none" {
					bi.Commit = s.Value
				}
			case "vcs.time":
				if bi.Date == "unknown" {
					bi.Date = s.Value
				}
			}
		}
	}
	return bi
}

// String is the one line form printed by --version
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}
