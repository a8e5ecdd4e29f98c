package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/git"
	"github.com/byterings/figgit/internal/platform"
	"github.com/olekukonko/tablewriter"
)

// ProfileView is the rendered form of a profile
type ProfileView struct {
	Name       string            `json:"name" yaml:"name"`
	UserName   string            `json:"user_name" yaml:"user_name"`
	Email      string            `json:"email" yaml:"email"`
	SigningKey string            `json:"signing_key,omitempty" yaml:"signing_key,omitempty"`
	Patterns   []string          `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Extra      map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
	Bindings   []string          `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	Current    bool              `json:"current" yaml:"current"`
}

// NewProfileView combines a profile with the paths bound to it
func NewProfileView(p config.Profile, bindings []config.Binding, current string) ProfileView {
	v := ProfileView{
		Name:       p.Name,
		UserName:   p.UserName,
		Email:      p.Email,
		SigningKey: p.SigningKey,
		Patterns:   p.Patterns,
		Extra:      p.Extra,
		Current:    p.Name == current,
	}
	for _, b := range bindings {
		v.Bindings = append(v.Bindings, b.Path)
	}
	return v
}

// Profiles renders the profile list
func (p *Printer) Profiles(views []ProfileView) error {
	if views == nil {
		views = []ProfileView{}
	}
	if ok, err := p.encode(views); ok {
		return err
	}

	if len(views) == 0 {
		p.Println("No profiles configured yet.")
		p.Println("\nCreate your first profile with: figgit set <name> --user \"Jane Doe\" --email jane@example.com")
		return nil
	}

	if p.Format == FormatTable {
		table := tablewriter.NewWriter(p.Out)
		table.Header([]string{"", "Name", "User", "Email", "Bindings", "Patterns"})
		var data [][]string
		for _, v := range views {
			data = append(data, []string{
				marker(v.Current),
				v.Name,
				v.UserName,
				v.Email,
				shortenAll(v.Bindings),
				strings.Join(v.Patterns, ", "),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	}

	p.Println("\nProfiles:")
	p.Println()
	for _, v := range views {
		fmt.Fprintf(p.Out, "%s %-16s %-30s %s\n", marker(v.Current), v.Name, v.Email, v.UserName)
		for _, b := range v.Bindings {
			fmt.Fprintf(p.Out, "    %s\n", platform.ShortenPath(b))
		}
	}
	p.Println()
	return nil
}

// Profile renders a single profile
func (p *Printer) Profile(v ProfileView) error {
	if ok, err := p.encode(v); ok {
		return err
	}

	rows := [][]string{
		{"Name", v.Name},
		{config.KeyUserName, v.UserName},
		{config.KeyUserEmail, v.Email},
	}
	if v.SigningKey != "" {
		rows = append(rows, []string{config.KeySigningKey, v.SigningKey})
	}
	keys := make([]string, 0, len(v.Extra))
	for k := range v.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{k, v.Extra[k]})
	}
	if len(v.Patterns) > 0 {
		rows = append(rows, []string{"Patterns", strings.Join(v.Patterns, ", ")})
	}
	if len(v.Bindings) > 0 {
		rows = append(rows, []string{"Bindings", shortenAll(v.Bindings)})
	}

	if p.Format == FormatTable {
		table := tablewriter.NewWriter(p.Out)
		table.Header([]string{"Key", "Value"})
		if err := table.Bulk(rows); err != nil {
			return err
		}
		return table.Render()
	}

	bold.Fprintln(p.Out, v.Name)
	for _, r := range rows[1:] {
		fmt.Fprintf(p.Out, "  %-18s %s\n", r[0]+":", r[1])
	}
	return nil
}

// ChangeSet is the outcome of applying a profile to a repository
type ChangeSet struct {
	Repo    string       `json:"repo" yaml:"repo"`
	Profile string       `json:"profile" yaml:"profile"`
	Source  string       `json:"source" yaml:"source"`
	Match   string       `json:"match,omitempty" yaml:"match,omitempty"`
	DryRun  bool         `json:"dry_run" yaml:"dry_run"`
	Changes []git.Change `json:"changes" yaml:"changes"`
}

// Changes renders the keys written by an apply
func (p *Printer) Changes(cs ChangeSet) error {
	if cs.Changes == nil {
		cs.Changes = []git.Change{}
	}
	if ok, err := p.encode(cs); ok {
		return err
	}

	if len(cs.Changes) == 0 {
		p.Success("Profile '%s' already applied to %s", cs.Profile, platform.ShortenPath(cs.Repo))
		return nil
	}

	if p.Format == FormatTable {
		table := tablewriter.NewWriter(p.Out)
		table.Header([]string{"Key", "Old", "New"})
		var data [][]string
		for _, c := range cs.Changes {
			data = append(data, []string{c.Key, oldValue(c), newValue(c)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	} else {
		for _, c := range cs.Changes {
			fmt.Fprintf(p.Out, "  %-18s %s → %s\n", c.Key, oldValue(c), newValue(c))
		}
	}

	if cs.DryRun {
		p.Info("Dry run: %d key(s) would change for profile '%s'", len(cs.Changes), cs.Profile)
		return nil
	}
	p.Success("Applied profile '%s' to %s (%d key(s) changed)", cs.Profile, platform.ShortenPath(cs.Repo), len(cs.Changes))
	return nil
}

// StatusView describes the identity in effect for a repository
type StatusView struct {
	Repo      string       `json:"repo" yaml:"repo"`
	Local     git.Identity `json:"local" yaml:"local"`
	Global    git.Identity `json:"global" yaml:"global"`
	Effective git.Identity `json:"effective" yaml:"effective"`
	Matching  string       `json:"matching_profile,omitempty" yaml:"matching_profile,omitempty"`
	Resolved  string       `json:"resolved_profile,omitempty" yaml:"resolved_profile,omitempty"`
	Source    string       `json:"source,omitempty" yaml:"source,omitempty"`
	Match     string       `json:"match,omitempty" yaml:"match,omitempty"`
}

// InSync reports whether the identity in effect belongs to the resolved profile
func (s StatusView) InSync() bool {
	return s.Resolved != "" && s.Matching == s.Resolved
}

// Status renders the status report
func (p *Printer) Status(s StatusView) error {
	if ok, err := p.encode(s); ok {
		return err
	}

	p.Println()
	fmt.Fprintf(p.Out, "  Repository:       %s\n", platform.ShortenPath(s.Repo))
	fmt.Fprintf(p.Out, "  Local identity:   %s\n", describeIdentity(s.Local))
	fmt.Fprintf(p.Out, "  Global identity:  %s\n", describeIdentity(s.Global))
	fmt.Fprintf(p.Out, "  Matching profile: %s\n", orNone(s.Matching))
	if s.Resolved != "" {
		fmt.Fprintf(p.Out, "  Resolved profile: %s (%s %s)\n", s.Resolved, s.Source, platform.ShortenPath(s.Match))
	} else {
		fmt.Fprintf(p.Out, "  Resolved profile: (none)\n")
	}
	p.Println()

	switch {
	case s.Resolved == "":
		p.Info("No binding or pattern covers this repository. Use 'figgit bind <profile>' to add one.")
	case s.InSync():
		p.Success("Identity matches profile '%s'", s.Resolved)
	default:
		p.Warning("Identity does not match profile '%s'. Run 'figgit use' to apply it.", s.Resolved)
	}
	return nil
}

func describeIdentity(id git.Identity) string {
	if id.IsEmpty() {
		return "(not set)"
	}
	return fmt.Sprintf("%s <%s>", orNone(id.Name), orNone(id.Email))
}

func oldValue(c git.Change) string {
	if c.WasUnset {
		return "(unset)"
	}
	return c.Old
}

func newValue(c git.Change) string {
	if c.Removed {
		return "(unset)"
	}
	return c.New
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func marker(current bool) string {
	if current {
		return "→"
	}
	return " "
}

func shortenAll(paths []string) string {
	short := make([]string, len(paths))
	for i, path := range paths {
		short[i] = platform.ShortenPath(path)
	}
	return strings.Join(short, ", ")
}
