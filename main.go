package main

import (
	"fmt"
	"os"

	"github.com/weathercloset/weathercloset/cmd"
	"github.com/weathercloset/weathercloset/internal/buildinfo"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = ""
)

func main() {
	rootCmd := cmd.RootCommand(buildinfo.NewContext(version, buildDate))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
