// Command acqengine is the deal-evaluation CLI: listing valuation and
// scoring, pipeline rollups, financial quality screening, and benchmark
// database migrations.
package main

import (
	"os"

	"github.com/sellside-labs/acquisition-engine/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
