package config

import "errors"

var (
	// ErrNotFound indicates an unknown profile or binding.
	ErrNotFound = errors.New("not found")
	// ErrUnknownProfile indicates a binding that references a missing profile.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrStoreCorrupt indicates the persisted store could not be parsed.
	ErrStoreCorrupt = errors.New("store corrupt")
	// ErrProfileExists indicates a profile with that name already exists.
	ErrProfileExists = errors.New("profile already exists")
	// ErrProfileInUse indicates a profile that is still referenced by a binding.
	ErrProfileInUse = errors.New("profile in use")
	// ErrInvalidKey indicates a git config key that is not section[.subsection].name.
	ErrInvalidKey = errors.New("invalid key")
	// ErrInvalidProfile indicates a profile missing required fields.
	ErrInvalidProfile = errors.New("invalid profile")
)
