package avatargen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ManifestRecord is the manifest entry for one author.
type ManifestRecord struct {
	Filename    string    `json:"filename"`
	GeneratedAt time.Time `json:"generated_at"`
	Regenerated bool      `json:"regenerated,omitempty"`
}

// Manifest maps display names to the avatars produced for them.
type Manifest struct {
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	TotalAvatars int                       `json:"total_avatars"`
	Avatars      map[string]ManifestRecord `json:"avatars"`
}

// NewManifest returns an empty manifest created at now.
func NewManifest(now time.Time) *Manifest {
	return &Manifest{
		CreatedAt: now,
		UpdatedAt: now,
		Avatars:   make(map[string]ManifestRecord),
	}
}

// Record stores rec under name, replacing any previous entry.
func (m *Manifest) Record(name string, rec ManifestRecord) {
	if m.Avatars == nil {
		m.Avatars = make(map[string]ManifestRecord)
	}
	m.Avatars[name] = rec
}

// Names returns the recorded display names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Avatars))
	for name := range m.Avatars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ManifestStore reads and rewrites the manifest document at a fixed path.
type ManifestStore struct {
	path string
	now  func() time.Time
}

// NewManifestStore returns a store for the manifest at path.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path, now: time.Now}
}

// Path returns the manifest file path.
func (s *ManifestStore) Path() string {
	return s.path
}

// Load reads the manifest, or returns an empty one when the file does not
// exist yet. A file that exists but cannot be parsed is an error: rewriting
// it would discard the history it holds.
func (s *ManifestStore) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewManifest(s.now().UTC()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", s.path, err)
	}
	if m.Avatars == nil {
		m.Avatars = make(map[string]ManifestRecord)
	}
	return &m, nil
}

// Save recomputes TotalAvatars, stamps UpdatedAt and rewrites the whole
// document. The write goes through a temporary file in the same directory
// so a crash never leaves a truncated manifest behind.
func (s *ManifestStore) Save(m *Manifest) error {
	now := s.now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	m.TotalAvatars = len(m.Avatars)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod manifest: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
