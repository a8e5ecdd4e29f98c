package config

// CurrentVersion is written to every saved store
const CurrentVersion = "1"

// Profile is a named set of git configuration values
type Profile struct {
	Name       string            `toml:"name" json:"name" yaml:"name"`
	UserName   string            `toml:"user_name" json:"user_name" yaml:"user_name"`
	Email      string            `toml:"email" json:"email" yaml:"email"`
	SigningKey string            `toml:"signing_key,omitempty" json:"signing_key,omitempty" yaml:"signing_key,omitempty"`
	Patterns   []string          `toml:"patterns,omitempty" json:"patterns,omitempty" yaml:"patterns,omitempty"` // Remote URL globs for auto-detection
	Extra      map[string]string `toml:"extra,omitempty" json:"extra,omitempty" yaml:"extra,omitempty"`          // Additional git config keys
}

// Binding ties a workspace directory (and everything below it) to a profile
type Binding struct {
	Path    string `toml:"path" json:"path" yaml:"path"` // Absolute path to the workspace directory
	Profile string `toml:"profile" json:"profile" yaml:"profile"`
}

// Config is the persisted profile store
type Config struct {
	Version  string    `toml:"version"`
	Profiles []Profile `toml:"profiles"`
	Bindings []Binding `toml:"bindings"`
}

// Entry is a single git config key/value produced from a profile. Unset
// entries name a key that must be absent.
type Entry struct {
	Key   string
	Value string
	Unset bool
}
