package cmd

import (
	"fmt"

	"github.com/byterings/figgit/internal/git"
	"github.com/byterings/figgit/internal/identity"
	"github.com/byterings/figgit/internal/platform"
	"github.com/byterings/figgit/internal/ui"
	"github.com/spf13/cobra"
)

func newUseCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "use [name]",
		Short: "Apply a profile to the current repository",
		Long: `Write a profile's git config into the current repository's local config.

Without a name the profile is resolved from the workspace bindings (longest
bound prefix of the current directory), then from the profiles' remote URL
patterns matched against remote.origin.url. Keys already holding the wanted
value are left alone, so running use twice changes nothing the second time.`,
		Example: `  figgit use              # Apply the resolved profile
  figgit use work         # Apply a specific profile
  figgit use --dry-run    # Show what would change`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return a.runUse(name, dryRun)
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the changes without writing them")
	return cmd
}

func (a *app) runUse(name string, dryRun bool) error {
	repo, err := git.Open(a.dir)
	if err != nil {
		return err
	}

	cfg, err := a.load()
	if err != nil {
		return err
	}

	var res *identity.Resolution
	if name != "" {
		profile, err := cfg.Get(name)
		if err != nil {
			return err
		}
		res = &identity.Resolution{Profile: profile, Source: identity.SourceExplicit}
	} else {
		res = identity.ResolveRepo(cfg, a.dir, repo.OriginURL())
		if res == nil {
			return fmt.Errorf("no profile is bound to %s and no pattern matches its remote\nRun: figgit use <name>, or figgit bind <name>", platform.ShortenPath(repo.Root))
		}
	}

	return a.apply(repo, res, dryRun)
}

// apply writes the resolved profile to the repository and reports the diff
func (a *app) apply(repo *git.Repo, res *identity.Resolution, dryRun bool) error {
	entries := res.Profile.Entries()

	var changes []git.Change
	var err error
	if dryRun {
		changes, err = repo.Plan(entries)
	} else {
		changes, err = repo.Apply(entries)
	}
	if err != nil {
		return err
	}

	return a.printer.Changes(ui.ChangeSet{
		Repo:    repo.Root,
		Profile: res.Profile.Name,
		Source:  string(res.Source),
		Match:   res.Match,
		DryRun:  dryRun,
		Changes: changes,
	})
}
