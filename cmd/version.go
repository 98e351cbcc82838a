package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/compozy/releaseprep/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, commit, built := version.Version, version.CommitHash, version.BuildDate
			// go install builds carry no ldflags; fall back to the module and VCS stamps
			if info, ok := debug.ReadBuildInfo(); ok {
				if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
					v = info.Main.Version
				}
				for _, s := range info.Settings {
					switch {
					case s.Key == "vcs.revision" && commit == "unknown":
						commit = s.Value
					case s.Key == "vcs.time" && built == "unknown":
						built = s.Value
					}
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version:\t%s\n", safeValue(v, "dev"))
			fmt.Fprintf(out, "Commit:\t%s\n", safeValue(commit, "unknown"))
			fmt.Fprintf(out, "Built:\t%s\n", safeValue(built, "unknown"))
			fmt.Fprintf(out, "Go:\t%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}

func safeValue(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
