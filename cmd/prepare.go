package cmd

import (
	"github.com/compozy/releaseprep/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newPrepareCmd() *cobra.Command {
	var (
		nonInteractive bool
		openPR         bool
	)
	cmd := &cobra.Command{
		Use:   "prepare [major|minor|patch|alpha|rc|<version>]",
		Short: "Prepare the next release",
		Long: `Prepare the next release.

This command runs the whole preparation:
- Checks that the working tree is clean
- Resolves the next version (asks for it when no argument is given)
- Checks the paired dependency tracks the same major.minor
- Writes the version file and the manifest
- Builds the changelog for final releases
- Commits on a new release branch, or on the current branch for an alpha cut from a feature branch
- Pushes the branch

'alpha' or 'rc' on a final version is ambiguous: it could start the next minor,
patch or major line, so the command asks which one. With --non-interactive, or
when stdin is not a terminal, pass the exact version instead, for example
'release-prep prepare --non-interactive 2.4.1a1' after 2.4.0. The same applies
to 'alpha' on a release candidate.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.OutOrStdout(), nonInteractive)
			if err != nil {
				return err
			}
			defer c.close()
			orch, err := c.orchestrator()
			if err != nil {
				return err
			}
			cfg := orchestrator.PrepareConfig{OpenPR: openPR}
			if len(args) == 1 {
				cfg.Directive = args[0]
			}
			_, err = orch.Execute(cmd.Context(), cfg)
			return err
		},
	}
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; confirmations take their default")
	cmd.Flags().BoolVar(&openPR, "open-pr", false, "Open a pull request for the release branch through the GitHub API")
	return cmd
}
