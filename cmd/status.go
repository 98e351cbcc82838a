package cmd

import (
	"errors"
	"time"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how far the last prepare run got",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd.OutOrStdout(), true)
			if err != nil {
				return err
			}
			defer c.close()
			journal, err := c.journalRepo.LoadLatest(cmd.Context())
			if errors.Is(err, domain.ErrNotFound) {
				c.printer.Info("No release run recorded yet")
				return nil
			}
			if err != nil {
				return err
			}
			p := c.printer
			p.Plain("Session:\t%s", journal.SessionID)
			p.Plain("Started:\t%s", journal.StartedAt.Format(time.RFC3339))
			p.Plain("Status:\t%s", journal.Status)
			if journal.TargetVersion != "" {
				p.Plain("Version:\t%s -> %s", journal.CurrentVersion, journal.TargetVersion)
			}
			for _, rec := range journal.States {
				line := string(rec.State)
				if rec.Skipped {
					line += " (skipped)"
				}
				if rec.StepFailed != "" {
					line += " -> failed at " + rec.StepFailed
				}
				p.Plain("  %s  %s", rec.ReachedAt.Format(time.TimeOnly), line)
			}
			if journal.Error != "" {
				p.Error("%s", journal.Error)
			}
			if journal.Status == domain.RunStatusFailed && journal.HasReached(domain.StatePersisted) {
				p.Warn("Files were already changed; inspect the working tree before running again")
			}
			return nil
		},
	}
}
