package cmd

import (
	"fmt"
	"strings"

	"github.com/byterings/figgit/internal/git"
	"github.com/byterings/figgit/internal/identity"
	"github.com/byterings/figgit/internal/platform"
	"github.com/spf13/cobra"
)

func newCloneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <url> [directory]",
		Short: "Clone a repository and apply its profile",
		Long: `Clone a repository with git, then apply the profile resolved for the new
work tree: the binding covering the target directory, otherwise the first
profile whose pattern matches the URL.`,
		Example: `  figgit clone git@github.com:corp/app.git
  figgit clone https://github.com/corp/app.git ~/src/corp/app`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			dest := ""
			if len(args) > 1 {
				dest = args[1]
			}
			return a.runClone(args[0], dest)
		},
	}
}

func (a *app) runClone(url, dest string) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	if dest == "" {
		dest = cloneDirName(url)
		if dest == "" {
			return fmt.Errorf("cannot derive a directory name from %s; pass one explicitly", url)
		}
	}
	target, err := a.resolvePath(dest)
	if err != nil {
		return err
	}

	res := identity.ResolveRepo(cfg, target, url)
	if res != nil {
		a.printer.Info("Cloning as '%s' (%s)", res.Profile.Name, res.Source)
	}

	if err := git.Clone(url, target); err != nil {
		return err
	}
	a.printer.Success("Repository cloned to %s", platform.ShortenPath(target))

	if res == nil {
		a.printer.Warning("No binding or pattern matches this repository; git config left unchanged")
		return nil
	}

	repo, err := git.Open(target)
	if err != nil {
		return err
	}
	return a.apply(repo, res, false)
}

// cloneDirName mirrors git's default: the last path component of the URL
// without a .git suffix
func cloneDirName(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return url
}
