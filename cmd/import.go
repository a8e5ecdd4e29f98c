package cmd

import (
	"fmt"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/git"
	"github.com/byterings/figgit/internal/platform"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var global bool
	var from string
	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Create a profile from existing git config",
		Long: `Create a profile from the identity already configured in git: the local
config of the current repository (or the one given with --from), or the
global config with --global.`,
		Example: `  figgit import work                    # From this repository
  figgit import work --from ~/src/corp/app
  figgit import personal --global`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runImport(args[0], global, from)
		},
	}
	cmd.Flags().BoolVarP(&global, "global", "g", false, "Read the global git config instead of a repository")
	cmd.Flags().StringVar(&from, "from", "", "Repository to read the local config from (default: current)")
	return cmd
}

func (a *app) runImport(name string, global bool, from string) error {
	if global && from != "" {
		return fmt.Errorf("--global and --from cannot be used together")
	}

	cfg, err := a.load()
	if err != nil {
		return err
	}
	if cfg.Has(name) {
		return fmt.Errorf("profile '%s': %w\nRun: figgit set %s to change it", name, config.ErrProfileExists, name)
	}

	var id git.Identity
	var source string
	if global {
		id = git.GlobalSnapshot().Global()
		source = "global git config"
	} else {
		dir, err := a.resolvePath(from)
		if err != nil {
			return err
		}
		repo, err := git.Open(dir)
		if err != nil {
			return err
		}
		snap, err := repo.Snapshot()
		if err != nil {
			return err
		}
		id = snap.Local()
		source = platform.ShortenPath(repo.Root)
	}

	if id.IsEmpty() {
		hint := "Run: figgit import " + name + " --global"
		if global {
			hint = "Run: git config --global user.name <name>"
		}
		return fmt.Errorf("no identity configured in %s\n%s", source, hint)
	}

	profile := config.Profile{
		Name:       name,
		UserName:   id.Name,
		Email:      id.Email,
		SigningKey: id.SigningKey,
	}
	if err := cfg.Put(profile); err != nil {
		return err
	}
	if err := a.save(cfg); err != nil {
		return err
	}

	a.printer.Success("Imported profile '%s' from %s", name, source)
	a.printer.Info("%s <%s>", id.Name, id.Email)
	return nil
}
