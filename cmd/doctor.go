package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/git"
	"github.com/byterings/figgit/internal/identity"
	"github.com/byterings/figgit/internal/platform"
	"github.com/spf13/cobra"
)

func newDoctorCmd(a *app) *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration issues",
		Long: `Check figgit configuration health and diagnose common issues.

Runs checks on:
- Git installation
- Profile store validity and permissions
- Bindings to missing directories or profiles
- Remote URL patterns

Examples:
  figgit doctor         # Run diagnostics
  figgit doctor --fix   # Fix permissions and drop stale bindings`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runDoctor(fix)
		},
	}
	cmd.Flags().BoolVarP(&fix, "fix", "f", false, "Auto-fix permission issues and stale bindings")
	return cmd
}

type checkResult struct {
	passed  bool
	message string
	fix     string // Suggested fix command
}

type doctorReport struct {
	errors   int
	warnings int
	fixed    int
}

func (r *doctorReport) add(a *app, results []checkResult) {
	for _, res := range results {
		a.printCheckResult(res)
		if !res.passed && res.fix == "" {
			r.errors++
		} else if !res.passed {
			r.warnings++
		}
	}
}

func (a *app) runDoctor(fix bool) error {
	out := a.printer.Out
	report := &doctorReport{}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Checking figgit configuration...")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Git")
	fmt.Fprintln(out, "───")
	report.add(a, checkGit())

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Store")
	fmt.Fprintln(out, "─────")
	storeResults, cfg, fixed := a.checkStore(fix)
	report.add(a, storeResults)
	report.fixed += fixed

	if cfg != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Bindings")
		fmt.Fprintln(out, "────────")
		bindingResults, fixed, err := a.checkBindings(cfg, fix)
		if err != nil {
			return err
		}
		report.add(a, bindingResults)
		report.fixed += fixed

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Patterns")
		fmt.Fprintln(out, "────────")
		report.add(a, checkPatterns(cfg))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "─────────")

	if report.fixed > 0 {
		a.printer.Success("Auto-fixed %d issue(s)", report.fixed)
	}

	if report.errors == 0 && report.warnings == 0 {
		a.printer.Success("All checks passed!")
	} else if report.errors == 0 {
		a.printer.Warning("%d warning(s)", report.warnings)
	} else {
		a.printer.Error(fmt.Errorf("%d error(s), %d warning(s)", report.errors, report.warnings))
	}

	return nil
}

func (a *app) printCheckResult(r checkResult) {
	out := a.printer.Out
	if r.passed {
		fmt.Fprintf(out, "  ✓ %s\n", r.message)
	} else if r.fix != "" {
		fmt.Fprintf(out, "  ⚠ %s\n", r.message)
		fmt.Fprintf(out, "    → %s\n", r.fix)
	} else {
		fmt.Fprintf(out, "  ✗ %s\n", r.message)
	}
}

func checkGit() []checkResult {
	if !git.IsGitInstalled() {
		return []checkResult{{
			passed:  false,
			message: "git not found in PATH",
		}}
	}
	return []checkResult{{passed: true, message: "git installed"}}
}

// checkStore validates the store file. It returns the loaded config, or nil
// when the store cannot be read.
func (a *app) checkStore(fix bool) ([]checkResult, *config.Config, int) {
	var results []checkResult
	path := a.store.Path()

	exists, err := a.store.Exists()
	if err != nil {
		return append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Error checking store: %v", err),
		}), nil, 0
	}
	if !exists {
		return append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Store not found at %s", platform.ShortenPath(path)),
			fix:     "Run: figgit set <name> --user <name> --email <email>",
		}), config.NewConfig(), 0
	}
	results = append(results, checkResult{
		passed:  true,
		message: fmt.Sprintf("Store exists (%s)", platform.ShortenPath(path)),
	})

	fixed := 0
	ok, err := platform.CheckFilePermissions(path)
	switch {
	case err != nil:
		results = append(results, checkResult{
			passed:  false,
			message: fmt.Sprintf("Cannot check store permissions: %v", err),
		})
	case ok:
		results = append(results, checkResult{passed: true, message: "Store permissions OK"})
	case fix:
		if err := platform.FixFilePermissions(path); err != nil {
			results = append(results, checkResult{
				passed:  false,
				message: fmt.Sprintf("Failed to fix store permissions: %v", err),
			})
		} else {
			fixed++
			results = append(results, checkResult{passed: true, message: "Store permissions fixed"})
		}
	default:
		results = append(results, checkResult{
			passed:  false,
			message: "Store is readable by other users",
			fix:     platform.GetPermissionFixCommand(path),
		})
	}

	cfg, err := a.store.Load()
	if err != nil {
		msg := fmt.Sprintf("Store invalid: %v", err)
		if errors.Is(err, config.ErrStoreCorrupt) {
			msg += fmt.Sprintf(" (edit it with: %s %s)", platform.GetEditorSuggestion(), path)
		}
		return append(results, checkResult{passed: false, message: msg}), nil, fixed
	}
	results = append(results, checkResult{passed: true, message: "Store valid"})

	if len(cfg.Profiles) == 0 {
		results = append(results, checkResult{
			passed:  false,
			message: "No profiles configured",
			fix:     "Run: figgit set <name> --user <name> --email <email>",
		})
	} else {
		results = append(results, checkResult{
			passed:  true,
			message: fmt.Sprintf("%d profile(s) configured", len(cfg.Profiles)),
		})
	}

	return results, cfg, fixed
}

func (a *app) checkBindings(cfg *config.Config, fix bool) ([]checkResult, int, error) {
	var results []checkResult
	stale := 0

	for _, b := range cfg.SortedBindings() {
		short := platform.ShortenPath(b.Path)
		problem := ""
		if !cfg.Has(b.Profile) {
			problem = fmt.Sprintf("%s is bound to missing profile '%s'", short, b.Profile)
		} else if info, err := os.Stat(b.Path); err != nil || !info.IsDir() {
			problem = fmt.Sprintf("%s (%s) no longer exists", short, b.Profile)
		}

		switch {
		case problem == "":
			results = append(results, checkResult{
				passed:  true,
				message: fmt.Sprintf("%s → %s", short, b.Profile),
			})
		case fix:
			stale++
			results = append(results, checkResult{passed: true, message: problem + ": removed"})
		default:
			stale++
			results = append(results, checkResult{
				passed:  false,
				message: problem,
				fix:     "Run: figgit doctor --fix",
			})
		}
	}

	if len(cfg.Bindings) == 0 {
		results = append(results, checkResult{passed: true, message: "No bindings"})
	}

	if stale == 0 || !fix {
		return results, 0, nil
	}

	removed := cfg.CleanupInvalidPaths()
	if err := a.save(cfg); err != nil {
		return nil, 0, err
	}
	return results, removed, nil
}

func checkPatterns(cfg *config.Config) []checkResult {
	var results []checkResult
	for _, p := range cfg.List() {
		for _, pattern := range p.Patterns {
			if _, err := identity.CompilePattern(pattern); err != nil {
				results = append(results, checkResult{
					passed:  false,
					message: fmt.Sprintf("Profile '%s': %v", p.Name, err),
					fix:     fmt.Sprintf("Run: figgit set %s --reset-patterns --pattern <pattern>", p.Name),
				})
			}
		}
	}
	if len(results) == 0 {
		results = append(results, checkResult{passed: true, message: "All patterns valid"})
	}
	return results
}
