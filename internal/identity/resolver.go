package identity

import (
	"path/filepath"
	"strings"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/platform"
)

// ResolutionSource indicates how the profile was resolved
type ResolutionSource string

const (
	SourceExplicit ResolutionSource = "explicit"
	SourceBinding  ResolutionSource = "binding"
	SourcePattern  ResolutionSource = "pattern"
)

// Resolution contains the resolved profile and its source
type Resolution struct {
	Profile config.Profile
	Source  ResolutionSource
	Match   string // The binding path or URL pattern that matched
}

// Resolve returns the binding with the longest path prefix of dir, or nil
// when no binding contains dir. Bindings whose profile no longer exists are
// ignored.
func Resolve(cfg *config.Config, dir string) *Resolution {
	target, err := platform.CanonicalPath(dir)
	if err != nil {
		target = filepath.Clean(dir)
	}

	var best *config.Binding
	bestLen := -1
	for i, b := range cfg.Bindings {
		if !cfg.Has(b.Profile) {
			continue
		}
		path := canonical(b.Path)
		if !IsInsidePath(target, path) {
			continue
		}
		if len(path) > bestLen {
			best = &cfg.Bindings[i]
			bestLen = len(path)
		}
	}
	if best == nil {
		return nil
	}

	profile, err := cfg.Get(best.Profile)
	if err != nil {
		return nil
	}
	return &Resolution{
		Profile: profile,
		Source:  SourceBinding,
		Match:   best.Path,
	}
}

// ResolveRemote returns the first profile, in store order, with a URL
// pattern matching the remote URL
func ResolveRemote(cfg *config.Config, remoteURL string) *Resolution {
	if remoteURL == "" {
		return nil
	}
	normalized := NormalizeRemote(remoteURL)

	for _, p := range cfg.Profiles {
		for _, pattern := range p.Patterns {
			if MatchPattern(pattern, normalized) {
				profile, err := cfg.Get(p.Name)
				if err != nil {
					return nil
				}
				return &Resolution{
					Profile: profile,
					Source:  SourcePattern,
					Match:   pattern,
				}
			}
		}
	}
	return nil
}

// ResolveRepo resolves the profile for a repository: workspace bindings take
// precedence over remote URL patterns
func ResolveRepo(cfg *config.Config, dir, remoteURL string) *Resolution {
	if r := Resolve(cfg, dir); r != nil {
		return r
	}
	return ResolveRemote(cfg, remoteURL)
}

// IsInsidePath checks if childPath is parentPath or below it
func IsInsidePath(childPath, parentPath string) bool {
	child := filepath.Clean(childPath)
	parent := filepath.Clean(parentPath)
	if child == parent {
		return true
	}

	if !strings.HasSuffix(parent, string(filepath.Separator)) {
		parent = parent + string(filepath.Separator)
	}
	return strings.HasPrefix(child, parent)
}

// canonical resolves symlinks for stored binding paths so they compare
// equal to a canonicalized working directory
func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
