package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/git"
	"github.com/byterings/figgit/internal/identity"
	"github.com/byterings/figgit/internal/platform"
	"github.com/byterings/figgit/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set via -ldflags at build time.
var version = "dev"

// app carries the per-invocation settings shared by every command
type app struct {
	v       *viper.Viper
	store   *config.Store
	printer *ui.Printer
	dir     string
}

// Execute runs the figgit command tree
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "figgit",
		Short: "Per-workspace git identities and config profiles",
		Long: `figgit keeps named git config profiles (author identity, signing key and
any other git settings) and applies the right one to each repository.

A profile is chosen by binding a directory to it (the longest bound prefix
wins) or by matching the repository's remote URL against the profile's
patterns. Profiles are only ever written to the repository-local git config.`,
		Example: `  figgit set work --user "Jane Doe" --email jane@corp.example
  figgit bind work ~/src/corp
  figgit use`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Profile store file (default $XDG_CONFIG_HOME/figgit/config.toml)")
	flags.StringP("directory", "C", "", "Run as if figgit was started in this directory")
	flags.String("format", string(ui.FormatText), "Output format: text, json, yaml or table")
	flags.Bool("no-color", false, "Disable coloured output")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	if err := a.v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}
	a.v.SetEnvPrefix("FIGGIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(
		newSetCmd(a),
		newUseCmd(a),
		newBindCmd(a),
		newUnbindCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newStatusCmd(a),
		newRemoveCmd(a),
		newImportCmd(a),
		newCloneCmd(a),
		newDoctorCmd(a),
	)

	return cmd
}

// setup resolves the global flags once the command line is parsed
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if a.v.GetBool("no-color") {
		ui.SetColor(false)
	}

	format, err := ui.ParseFormat(a.v.GetString("format"))
	if err != nil {
		return err
	}
	a.printer = &ui.Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr(), Format: format}

	if err := a.setupDir(); err != nil {
		return err
	}

	path := a.v.GetString("config")
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	} else if path, err = platform.ExpandTilde(path); err != nil {
		return err
	}
	a.store = config.NewStore(path)

	slog.Debug("settings resolved", "store", path, "dir", a.dir, "format", format)
	return nil
}

func (a *app) setupDir() error {
	dir := a.v.GetString("directory")
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	canonical, err := platform.CanonicalPath(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return fmt.Errorf("cannot change to %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot change to %s: not a directory", dir)
	}
	a.dir = canonical
	return nil
}

// load reads the profile store
func (a *app) load() (*config.Config, error) {
	cfg, err := a.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// save writes the profile store
func (a *app) save(cfg *config.Config) error {
	if err := a.store.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// resolvePath makes a command-line path absolute relative to the working
// directory and resolves symlinks
func (a *app) resolvePath(path string) (string, error) {
	if path == "" {
		return a.dir, nil
	}
	expanded, err := platform.ExpandTilde(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(a.dir, expanded)
	}
	return platform.CanonicalPath(expanded)
}

// resolveHere resolves the profile for the working directory, matching the
// origin remote as well when inside a repository
func (a *app) resolveHere(cfg *config.Config) *identity.Resolution {
	remote := ""
	if repo, err := git.Open(a.dir); err == nil {
		remote = repo.OriginURL()
	}
	return identity.ResolveRepo(cfg, a.dir, remote)
}
