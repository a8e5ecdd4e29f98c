package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// Identity keys are managed through dedicated profile fields
const (
	KeyUserName   = "user.name"
	KeyUserEmail  = "user.email"
	KeySigningKey = "user.signingkey"
)

// Section and variable names: alphanumeric and '-', starting with a letter
var reValidName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// NewConfig creates a new empty config
func NewConfig() *Config {
	return &Config{
		Version:  CurrentVersion,
		Profiles: []Profile{},
		Bindings: []Binding{},
	}
}

// CanonicalKey validates a git config key and lower-cases its section and
// variable name. Subsection names are case sensitive and kept as is.
func CanonicalKey(key string) (string, error) {
	first := strings.Index(key, ".")
	last := strings.LastIndex(key, ".")
	if first <= 0 || last == len(key)-1 {
		return "", fmt.Errorf("%w: %q (expected section.name)", ErrInvalidKey, key)
	}

	section := strings.ToLower(key[:first])
	name := strings.ToLower(key[last+1:])
	if !reValidName.MatchString(section) || !reValidName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	if first == last {
		return section + "." + name, nil
	}
	subsection := key[first+1 : last]
	if subsection == "" {
		return "", fmt.Errorf("%w: %q (empty subsection)", ErrInvalidKey, key)
	}
	return section + "." + subsection + "." + name, nil
}

func isIdentityKey(key string) bool {
	return key == KeyUserName || key == KeyUserEmail || key == KeySigningKey
}

// ValidateName checks that a profile name is non-empty and carries no
// surrounding whitespace
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: name %q has leading or trailing whitespace", ErrInvalidProfile, name)
	}
	return nil
}

// Normalize validates the profile and canonicalizes its extra keys and patterns
func (p *Profile) Normalize() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if strings.TrimSpace(p.UserName) == "" {
		return fmt.Errorf("%w: '%s' has no user name", ErrInvalidProfile, p.Name)
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: '%s' has no email", ErrInvalidProfile, p.Name)
	}

	if len(p.Extra) > 0 {
		extra := make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			ck, err := CanonicalKey(k)
			if err != nil {
				return err
			}
			if isIdentityKey(ck) {
				return fmt.Errorf("%w: %s is set through the profile fields", ErrInvalidKey, ck)
			}
			if _, dup := extra[ck]; dup {
				return fmt.Errorf("%w: %s is set more than once in '%s'", ErrInvalidKey, ck, p.Name)
			}
			extra[ck] = v
		}
		p.Extra = extra
	} else {
		p.Extra = nil
	}

	var patterns []string
	for _, pat := range p.Patterns {
		pat = strings.TrimSpace(pat)
		if pat != "" && !slices.Contains(patterns, pat) {
			patterns = append(patterns, pat)
		}
	}
	p.Patterns = patterns

	return nil
}

// Entries returns the git config entries the profile applies, identity keys
// first and extra keys in lexical order. A profile without a signing key
// clears any signing key left behind by another profile.
func (p *Profile) Entries() []Entry {
	entries := []Entry{
		{Key: KeyUserName, Value: p.UserName},
		{Key: KeyUserEmail, Value: p.Email},
	}
	if p.SigningKey != "" {
		entries = append(entries, Entry{Key: KeySigningKey, Value: p.SigningKey})
	} else {
		entries = append(entries, Entry{Key: KeySigningKey, Unset: true})
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entries = append(entries, Entry{Key: k, Value: p.Extra[k]})
	}
	return entries
}

// AddPatterns appends URL patterns, skipping duplicates. With reset the
// existing list is replaced.
func (p *Profile) AddPatterns(patterns []string, reset bool) {
	if reset {
		p.Patterns = nil
	}
	for _, pat := range patterns {
		if !slices.Contains(p.Patterns, pat) {
			p.Patterns = append(p.Patterns, pat)
		}
	}
}

// Get returns a copy of the profile with the given name
func (c *Config) Get(name string) (Profile, error) {
	if p := c.find(name); p != nil {
		return clone(*p), nil
	}
	return Profile{}, fmt.Errorf("profile '%s': %w", name, ErrNotFound)
}

// Has reports whether a profile exists
func (c *Config) Has(name string) bool {
	return c.find(name) != nil
}

func (c *Config) find(name string) *Profile {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i]
		}
	}
	return nil
}

// Put inserts the profile or replaces the one with the same name
func (c *Config) Put(p Profile) error {
	p = clone(p)
	if err := p.Normalize(); err != nil {
		return err
	}

	if existing := c.find(p.Name); existing != nil {
		*existing = p
		return nil
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// Remove deletes a profile. A profile still referenced by bindings is only
// removed with force, in which case those bindings are removed and returned.
func (c *Config) Remove(name string, force bool) ([]Binding, error) {
	idx := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
	if idx < 0 {
		return nil, fmt.Errorf("profile '%s': %w", name, ErrNotFound)
	}

	bound := c.BindingsFor(name)
	if len(bound) > 0 && !force {
		return nil, fmt.Errorf("profile '%s' is bound to %d workspace(s): %w", name, len(bound), ErrProfileInUse)
	}

	c.Profiles = slices.Delete(c.Profiles, idx, idx+1)
	c.Bindings = slices.DeleteFunc(c.Bindings, func(b Binding) bool { return b.Profile == name })
	return bound, nil
}

// List returns all profiles ordered by name
func (c *Config) List() []Profile {
	out := make([]Profile, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindByIdentity finds the first profile with the given user name and email
func (c *Config) FindByIdentity(userName, email string) *Profile {
	for i := range c.Profiles {
		if c.Profiles[i].UserName == userName && c.Profiles[i].Email == email {
			return &c.Profiles[i]
		}
	}
	return nil
}

// Bind associates an absolute workspace path with a profile. Rebinding a
// path replaces its profile and returns the previous profile name.
func (c *Config) Bind(path, name string) (string, error) {
	if c.find(name) == nil {
		return "", fmt.Errorf("cannot bind to '%s': %w", name, ErrUnknownProfile)
	}
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("binding path must be absolute: %s", path)
	}
	path = filepath.Clean(path)

	for i, b := range c.Bindings {
		if b.Path == path {
			previous := b.Profile
			c.Bindings[i].Profile = name
			return previous, nil
		}
	}
	c.Bindings = append(c.Bindings, Binding{Path: path, Profile: name})
	return "", nil
}

// Unbind removes the binding for path
func (c *Config) Unbind(path string) (Binding, error) {
	path = filepath.Clean(path)
	for i, b := range c.Bindings {
		if b.Path == path {
			c.Bindings = slices.Delete(c.Bindings, i, i+1)
			return b, nil
		}
	}
	return Binding{}, fmt.Errorf("binding for %s: %w", path, ErrNotFound)
}

// BindingsFor returns the bindings that reference a profile
func (c *Config) BindingsFor(name string) []Binding {
	var out []Binding
	for _, b := range c.Bindings {
		if b.Profile == name {
			out = append(out, b)
		}
	}
	return out
}

// SortedBindings returns all bindings ordered by path
func (c *Config) SortedBindings() []Binding {
	out := slices.Clone(c.Bindings)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// DanglingBindings returns bindings whose profile does not exist
func (c *Config) DanglingBindings() []Binding {
	var out []Binding
	for _, b := range c.Bindings {
		if c.find(b.Profile) == nil {
			out = append(out, b)
		}
	}
	return out
}

// DuplicateNames returns profile names that occur more than once
func (c *Config) DuplicateNames() []string {
	seen := make(map[string]int, len(c.Profiles))
	var dups []string
	for _, p := range c.Profiles {
		seen[p.Name]++
		if seen[p.Name] == 2 {
			dups = append(dups, p.Name)
		}
	}
	return dups
}

// Validate reports duplicate profile names and bindings to missing profiles
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.DuplicateNames() {
		errs = append(errs, fmt.Errorf("duplicate profile name '%s'", name))
	}
	for _, b := range c.DanglingBindings() {
		errs = append(errs, fmt.Errorf("%s is bound to missing profile '%s'", b.Path, b.Profile))
	}
	return errors.Join(errs...)
}

// CleanupInvalidPaths removes bindings whose path is no longer a directory
// and bindings that reference missing profiles
func (c *Config) CleanupInvalidPaths() int {
	removed := 0
	valid := make([]Binding, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		if info, err := os.Stat(b.Path); err != nil || !info.IsDir() || c.find(b.Profile) == nil {
			removed++
			continue
		}
		valid = append(valid, b)
	}
	c.Bindings = valid
	return removed
}

func clone(p Profile) Profile {
	p.Patterns = slices.Clone(p.Patterns)
	if p.Extra != nil {
		extra := make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			extra[k] = v
		}
		p.Extra = extra
	}
	return p
}
