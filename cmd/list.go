package cmd

import (
	"github.com/byterings/figgit/internal/ui"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Long: `List all profiles ordered by name with their bound directories.
The profile resolved for the current directory is marked with →.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runList()
		},
	}
}

func (a *app) runList() error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	current := ""
	if res := a.resolveHere(cfg); res != nil {
		current = res.Profile.Name
	}

	profiles := cfg.List()
	views := make([]ui.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, ui.NewProfileView(p, cfg.BindingsFor(p.Name), current))
	}
	return a.printer.Profiles(views)
}
