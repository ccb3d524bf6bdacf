package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version, buildDate, and gitCommit are set via -ldflags at build
// time, matching the teacher's cmd/commands SetVersion convention.
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voxtrace %s\n", version)
		fmt.Printf("build date: %s\n", buildDate)
		fmt.Printf("git commit: %s\n", gitCommit)
	},
}
