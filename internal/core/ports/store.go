package ports

import "go.trai.ch/quarry/internal/core/domain"

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// SettingsStore holds the user settings loaded at construction time.
type SettingsStore interface {
	// Settings returns the current settings.
	Settings() domain.Settings
	// Set updates one setting by key. It does not persist.
	Set(key, value string) error
	// Save persists the current settings.
	Save() error
}

// SessionStore holds the persisted login session.
type SessionStore interface {
	// Current returns the persisted session, if any.
	Current() (domain.Session, bool)
	// Login creates and persists an offline session for username.
	Login(username string) (domain.Session, error)
	// Logout removes the persisted session.
	Logout() error
}

// MetadataStore holds the cosmetic names of installed instances.
type MetadataStore interface {
	Set(versionID string, md domain.InstanceMetadata) error
	// Name returns the custom name of versionID, or versionID itself.
	Name(versionID string) string
	Remove(versionID string) error
	All() map[string]domain.InstanceMetadata
}
