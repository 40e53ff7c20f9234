// Package buildinfo reports the build metadata stamped in via -ldflags:
//
//	go build -ldflags "-X safeshare/internal/buildinfo.BuildVersion=1.0.0 \
//	  -X safeshare/internal/buildinfo.BuildDate=2026-08-29 \
//	  -X safeshare/internal/buildinfo.BuildCommit=abc1234" ./cmd/client
package buildinfo

import (
	"fmt"
	"io"
)

var (
	BuildVersion = "N/A"
	BuildDate    = "N/A"
	BuildCommit  = "N/A"
)

// PrintBuildData writes the build metadata to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", BuildVersion)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", BuildCommit)
}
