package cmd

import (
	"github.com/byterings/figgit/internal/platform"
	"github.com/spf13/cobra"
)

func newUnbindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unbind [path]",
		Short: "Remove the binding for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.runUnbind(path)
		},
	}
}

func (a *app) runUnbind(path string) error {
	dir, err := a.resolvePath(path)
	if err != nil {
		return err
	}

	cfg, err := a.load()
	if err != nil {
		return err
	}

	removed, err := cfg.Unbind(dir)
	if err != nil {
		return err
	}
	if err := a.save(cfg); err != nil {
		return err
	}

	a.printer.Success("Removed binding of %s to '%s'", platform.ShortenPath(removed.Path), removed.Profile)
	return nil
}
