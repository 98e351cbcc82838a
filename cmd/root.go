package cmd

import (
	"github.com/compozy/releaseprep/pkg/version"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	verbose    bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "release-prep",
	Short: "Prepare a release: bump the version, build the changelog and push a release branch",
	Long: `release-prep increases the version number, creates a changelog and creates a release branch.

Alpha releases cut from a feature branch are committed on that branch instead.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Path to a config file (default .release-prep.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}
