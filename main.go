package main

import (
	"errors"
	"os"

	"github.com/compozy/releaseprep/cmd"
	"github.com/compozy/releaseprep/internal/console"
	"github.com/compozy/releaseprep/internal/domain"
)

func main() {
	printer := console.NewPrinter(os.Stderr)
	if err := cmd.InitCommands(); err != nil {
		printer.Error("Failed to initialize commands: %v", err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrUserDeclined) {
			printer.Warn("Aborting.")
			os.Exit(1)
		}
		printer.Error("Error: %v", err)
		os.Exit(1)
	}
}
