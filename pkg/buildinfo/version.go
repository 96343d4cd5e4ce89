// Package buildinfo carries version information stamped at build time:
//
//	go build -ldflags "-X github.com/kustodian/sunburst/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/kustodian/sunburst/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/kustodian/sunburst/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with `go install` are not stamped; for those the module
// version recorded by the toolchain is used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the short git SHA.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
}

// String returns the multi-line build description.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
