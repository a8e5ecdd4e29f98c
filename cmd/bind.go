package cmd

import (
	"fmt"
	"os"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/platform"
	"github.com/spf13/cobra"
)

func newBindCmd(a *app) *cobra.Command {
	var mkdir bool
	cmd := &cobra.Command{
		Use:   "bind <name> [path]",
		Short: "Bind a directory to a profile",
		Long: `Bind a directory (default: the current one) to a profile.

Every repository below a bound directory resolves to that profile unless a
deeper directory is bound to another one. Binding an already bound path
replaces its profile. With --mkdir a missing directory is created first.`,
		Example: `  figgit bind work              # Bind the current directory
  figgit bind work ~/src/corp   # Bind a workspace root
  figgit bind client ~/src/corp/client-x --mkdir`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			return a.runBind(args[0], path, mkdir)
		},
	}
	cmd.Flags().BoolVar(&mkdir, "mkdir", false, "Create the directory if it does not exist")
	return cmd
}

func (a *app) runBind(name, path string, mkdir bool) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	if !cfg.Has(name) {
		return fmt.Errorf("cannot bind to '%s': %w\nRun: figgit set %s --user <name> --email <email>", name, config.ErrUnknownProfile, name)
	}

	dir, err := a.resolvePath(path)
	if err != nil {
		return err
	}
	if mkdir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		// Canonicalize again now that the path exists
		if dir, err = platform.CanonicalPath(dir); err != nil {
			return err
		}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot bind %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot bind %s: not a directory", dir)
	}

	previous, err := cfg.Bind(dir, name)
	if err != nil {
		return err
	}
	if previous == name {
		a.printer.Info("%s is already bound to '%s'. No changes needed.", platform.ShortenPath(dir), name)
		return nil
	}

	if err := a.save(cfg); err != nil {
		return err
	}

	if previous != "" {
		a.printer.Warning("Rebound %s from '%s' to '%s'", platform.ShortenPath(dir), previous, name)
		return nil
	}
	a.printer.Success("Bound %s to '%s'", platform.ShortenPath(dir), name)
	return nil
}
