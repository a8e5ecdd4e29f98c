package git

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/byterings/figgit/internal/config"
)

// Change describes one key written (or to be written) to the local config.
// Removed changes delete the key instead of setting New.
type Change struct {
	Key      string `json:"key" yaml:"key"`
	Old      string `json:"old,omitempty" yaml:"old,omitempty"`
	New      string `json:"new" yaml:"new"`
	WasUnset bool   `json:"was_unset" yaml:"was_unset"`
	Removed  bool   `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// GetLocal reads a key from the repository-local config. The second return
// value is false when the key is not set.
func (r *Repo) GetLocal(key string) (string, bool, error) {
	out, err := output(r.Root, "config", "--local", "--get", key)
	if err != nil {
		var cmdErr *CommandError
		// Exit code 1 means the key is not set
		if errors.As(err, &cmdErr) && cmdErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get git %s: %w", key, err)
	}
	return strings.TrimRight(out, "\r\n"), true, nil
}

// SetLocal writes a key to the repository-local config, replacing every
// existing value of a multi-valued key
func (r *Repo) SetLocal(key, value string) error {
	if _, err := output(r.Root, "config", "--local", "--replace-all", key, value); err != nil {
		return fmt.Errorf("failed to set git %s: %w", key, err)
	}
	return nil
}

// UnsetLocal removes a key from the repository-local config. Unsetting a
// missing key is not an error.
func (r *Repo) UnsetLocal(key string) error {
	if _, err := output(r.Root, "config", "--local", "--unset-all", key); err != nil {
		var cmdErr *CommandError
		// Exit code 5 means the key is not set
		if errors.As(err, &cmdErr) && cmdErr.ExitCode() == 5 {
			return nil
		}
		return fmt.Errorf("failed to unset git %s: %w", key, err)
	}
	return nil
}

// Plan returns the changes Apply would make without writing anything
func (r *Repo) Plan(entries []config.Entry) ([]Change, error) {
	var changes []Change
	for _, e := range entries {
		current, set, err := r.GetLocal(e.Key)
		if err != nil {
			return nil, err
		}
		if e.Unset {
			if set {
				changes = append(changes, Change{Key: e.Key, Old: current, Removed: true})
			}
			continue
		}
		if set && current == e.Value {
			continue
		}
		changes = append(changes, Change{
			Key:      e.Key,
			Old:      current,
			New:      e.Value,
			WasUnset: !set,
		})
	}
	return changes, nil
}

// Apply writes entries to the repository-local config, skipping keys that
// already hold the wanted value and removing keys marked Unset. Applying the same entries twice yields no
// changes the second time. The global scope is never touched.
func (r *Repo) Apply(entries []config.Entry) ([]Change, error) {
	changes, err := r.Plan(entries)
	if err != nil {
		return nil, err
	}
	for _, c := range changes {
		if c.Removed {
			if err := r.UnsetLocal(c.Key); err != nil {
				return nil, err
			}
			slog.Debug("unset local git config", "repo", r.Root, "key", c.Key)
			continue
		}
		if err := r.SetLocal(c.Key, c.New); err != nil {
			return nil, err
		}
		slog.Debug("set local git config", "repo", r.Root, "key", c.Key)
	}
	return changes, nil
}
