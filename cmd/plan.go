package cmd

import (
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var nonInteractive bool
	cmd := &cobra.Command{
		Use:   "plan [major|minor|patch|alpha|rc|<version>]",
		Short: "Show what prepare would do without changing anything",
		Args:  cobra.MaximumNArgs(1),
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
			directive := ""
			if len(args) == 1 {
				directive = args[0]
			}
			decision, err := orch.Plan(cmd.Context(), directive)
			if err != nil {
				return err
			}
			p := c.printer
			p.Plain("Current version:\t%s", decision.Current)
			p.Plain("Next version:\t%s", p.Highlight(decision.Target.String()))
			p.Plain("Changelog:\t%s", yesNo(decision.GenerateChangelog))
			p.Plain("Base branch:\t%s", decision.BaseBranch)
			if decision.IsAlphaOnFeatureBranch {
				p.Plain("Commit on:\t%s (current branch)", decision.BaseBranch)
			} else {
				p.Plain("Commit on:\t%s (new branch)", decision.ReleaseBranch)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
