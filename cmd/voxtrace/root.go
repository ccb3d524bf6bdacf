// Package main is the voxtrace CLI entrypoint: build/render/serve
// subcommands wired with cobra, mirroring the teacher's
// cmd/commands/root.go RootCmd.AddCommand convention.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxtrace/voxtrace/internal/config"
	"github.com/voxtrace/voxtrace/internal/logger"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "voxtrace",
	Short: "Sparse voxel octree ray tracer",
	Long: `voxtrace converts dense voxel occupancy grids into a sparse
voxel octree and traces rays against it, with a BVH layered on top for
scenes built from many SVO instances.

Use 'voxtrace [command] --help' for more information about a command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if verbose {
			logger.SetLevel(logger.DEBUG)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(buildCmd, renderCmd, serveCmd, versionCmd)
}
