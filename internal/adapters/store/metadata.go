package store

import (
	"maps"
	"sync"

	"go.trai.ch/quarry/internal/core/domain"
)

// Metadata implements ports.MetadataStore on instances.json.
// Every mutation is saved immediately.
type Metadata struct {
	path string

	mu      sync.RWMutex
	entries map[string]domain.InstanceMetadata
}

// LoadMetadata reads the metadata map at path.
func LoadMetadata(path string) (*Metadata, error) {
	entries := make(map[string]domain.InstanceMetadata)
	if _, err := readJSON(path, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string]domain.InstanceMetadata)
	}
	return &Metadata{path: path, entries: entries}, nil
}

// Set records md for versionID and saves.
func (m *Metadata) Set(versionID string, md domain.InstanceMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	md.VersionID = versionID
	next := maps.Clone(m.entries)
	next[versionID] = md
	if err := writeJSON(m.path, next, domain.FilePerm); err != nil {
		return err
	}
	m.entries = next
	return nil
}

// Name returns the custom name of versionID, falling back to the id.
func (m *Metadata) Name(versionID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if md, ok := m.entries[versionID]; ok && md.CustomName != "" {
		return md.CustomName
	}
	return versionID
}

// Remove forgets versionID and saves. Unknown ids are a no-op.
func (m *Metadata) Remove(versionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[versionID]; !ok {
		return nil
	}
	next := maps.Clone(m.entries)
	delete(next, versionID)
	if err := writeJSON(m.path, next, domain.FilePerm); err != nil {
		return err
	}
	m.entries = next
	return nil
}

// All returns a copy of every entry.
func (m *Metadata) All() map[string]domain.InstanceMetadata {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.entries)
}
