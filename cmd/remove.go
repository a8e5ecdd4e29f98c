package cmd

import (
	"fmt"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/platform"
	"github.com/byterings/figgit/internal/ui"
	"github.com/spf13/cobra"
)

func newRemoveCmd(a *app) *cobra.Command {
	var force, yes bool
	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a profile",
		Long: `Remove a profile from the store.

A profile that directories are still bound to is only removed with --force,
which drops those bindings too. Repository git config already written by
'figgit use' is left untouched.`,
		Example: `  figgit remove old-job
  figgit remove work --force --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runRemove(args[0], force, yes)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Also remove the bindings referencing the profile")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (a *app) runRemove(name string, force, yes bool) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	profile, err := cfg.Get(name)
	if err != nil {
		return err
	}

	bound := len(cfg.BindingsFor(name))
	if bound > 0 && !force {
		return fmt.Errorf("profile '%s' is bound to %d workspace(s): %w\nUse --force to remove it together with its bindings", name, bound, config.ErrProfileInUse)
	}

	if !yes && ui.IsInteractive() {
		message := fmt.Sprintf("Remove profile '%s' (%s)?", name, profile.Email)
		if bound > 0 {
			message = fmt.Sprintf("Remove profile '%s' and its %d binding(s)?", name, bound)
		}
		confirmed, err := ui.PromptConfirmation(message)
		if err != nil {
			return err
		}
		if !confirmed {
			a.printer.Info("Cancelled")
			return nil
		}
	}

	removed, err := cfg.Remove(name, force)
	if err != nil {
		return err
	}
	if err := a.save(cfg); err != nil {
		return err
	}

	a.printer.Success("Removed profile '%s'", name)
	for _, b := range removed {
		a.printer.Info("Removed binding %s", platform.ShortenPath(b.Path))
	}
	return nil
}
