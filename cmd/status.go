package cmd

import (
	"github.com/byterings/figgit/internal/git"
	"github.com/byterings/figgit/internal/identity"
	"github.com/byterings/figgit/internal/ui"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the identity in effect for the current repository",
		Long: `Show the local and global git identity of the current repository, the
profile that identity belongs to, and the profile figgit resolves for it.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runStatus()
		},
	}
}

func (a *app) runStatus() error {
	repo, err := git.Open(a.dir)
	if err != nil {
		return err
	}
	cfg, err := a.load()
	if err != nil {
		return err
	}
	snap, err := repo.Snapshot()
	if err != nil {
		return err
	}

	view := ui.StatusView{
		Repo:      repo.Root,
		Local:     snap.Local(),
		Global:    snap.Global(),
		Effective: snap.Effective(),
	}
	if p := cfg.FindByIdentity(view.Effective.Name, view.Effective.Email); p != nil {
		view.Matching = p.Name
	}
	if res := identity.ResolveRepo(cfg, a.dir, repo.OriginURL()); res != nil {
		view.Resolved = res.Profile.Name
		view.Source = string(res.Source)
		view.Match = res.Match
	}

	return a.printer.Status(view)
}
