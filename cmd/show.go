package cmd

import (
	"fmt"

	"github.com/byterings/figgit/internal/platform"
	"github.com/byterings/figgit/internal/ui"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show a profile",
		Long: `Show a profile's identity, extra git config, patterns and bindings.
Without a name, show the profile resolved for the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.runShow(name)
		},
	}
}

func (a *app) runShow(name string) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	current := ""
	if name == "" {
		res := a.resolveHere(cfg)
		if res == nil {
			return fmt.Errorf("no profile resolved for %s\nRun: figgit show <name>", platform.ShortenPath(a.dir))
		}
		name = res.Profile.Name
		current = name
	}

	profile, err := cfg.Get(name)
	if err != nil {
		return err
	}
	return a.printer.Profile(ui.NewProfileView(profile, cfg.BindingsFor(name), current))
}
