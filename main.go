package main

import (
	"os"

	"github.com/byterings/figgit/cmd"
	"github.com/byterings/figgit/internal/ui"
)

func main() {
	if err := cmd.Execute(); err != nil {
		ui.NewPrinter(ui.FormatText).Error(err)
		os.Exit(1)
	}
}
