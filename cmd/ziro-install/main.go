package main

import (
	"os"

	"github.com/ziro-dev/ziro-dist/internal/cli"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1"

func main() {
	os.Exit(cli.Execute(Version))
}
