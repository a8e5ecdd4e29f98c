package git

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/byterings/figgit/internal/config"
	"github.com/gopasspw/gitconfig"
)

// Identity is the author identity found in one git config scope
type Identity struct {
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	SigningKey string `json:"signing_key,omitempty" yaml:"signing_key,omitempty"`
}

// IsEmpty reports whether neither name nor email is set
func (id Identity) IsEmpty() bool {
	return id.Name == "" && id.Email == ""
}

// Snapshot is a read-only view of the local and global git config of a
// repository. It parses the files directly instead of shelling out per key.
type Snapshot struct {
	local  *gitconfig.Configs
	global []*gitconfig.Config // highest precedence first
}

// Snapshot loads the repository's local config together with the user's
// global config
func (r *Repo) Snapshot() (*Snapshot, error) {
	gitDir, err := r.GitDir()
	if err != nil {
		return nil, err
	}
	s := GlobalSnapshot()
	s.local = gitconfig.New()
	s.local.NoWrites = true
	s.local.LoadAll(gitDir)
	return s, nil
}

// GlobalSnapshot loads only the user's global config
func GlobalSnapshot() *Snapshot {
	s := &Snapshot{}
	for _, path := range globalConfigPaths() {
		c, err := gitconfig.LoadConfig(path)
		if err != nil {
			slog.Debug("no global git config", "path", path, "err", err)
			continue
		}
		s.global = append(s.global, c)
	}
	return s
}

// globalConfigPaths lists the per-user config files the way git reads them.
// GIT_CONFIG_GLOBAL replaces both defaults; otherwise ~/.gitconfig takes
// precedence over $XDG_CONFIG_HOME/git/config.
func globalConfigPaths() []string {
	if path := os.Getenv("GIT_CONFIG_GLOBAL"); path != "" {
		return []string{path}
	}

	var paths []string
	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".gitconfig"))
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" && err == nil {
		xdg = filepath.Join(home, ".config")
	}
	if xdg != "" {
		paths = append(paths, filepath.Join(xdg, "git", "config"))
	}
	return paths
}

// Local returns the identity configured in the repository-local scope
func (s *Snapshot) Local() Identity {
	if s.local == nil {
		return Identity{}
	}
	return Identity{
		Name:       s.local.GetLocal(config.KeyUserName),
		Email:      s.local.GetLocal(config.KeyUserEmail),
		SigningKey: s.local.GetLocal(config.KeySigningKey),
	}
}

// Global returns the identity configured in the user's global scope
func (s *Snapshot) Global() Identity {
	return Identity{
		Name:       s.globalValue(config.KeyUserName),
		Email:      s.globalValue(config.KeyUserEmail),
		SigningKey: s.globalValue(config.KeySigningKey),
	}
}

// globalValue returns the last value of key in the first file that sets it
func (s *Snapshot) globalValue(key string) string {
	for _, c := range s.global {
		if vs, ok := c.GetAll(key); ok && len(vs) > 0 {
			return vs[len(vs)-1]
		}
	}
	return ""
}

// Effective returns the identity git would use, local scope first
func (s *Snapshot) Effective() Identity {
	local, global := s.Local(), s.Global()
	if local.Name == "" {
		local.Name = global.Name
	}
	if local.Email == "" {
		local.Email = global.Email
	}
	if local.SigningKey == "" {
		local.SigningKey = global.SigningKey
	}
	return local
}
