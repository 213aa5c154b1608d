package avatargen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage keeps avatars as files in a single output directory, which
// is created on the first write.
type LocalStorage struct {
	dir string
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage returns a Storage rooted at dir.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

// Path returns the full path for a stored file name.
func (s *LocalStorage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// SaveFile writes data to name inside the output directory, replacing any
// existing file, and returns the written path.
func (s *LocalStorage) SaveFile(ctx context.Context, data []byte, name string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Exists reports whether name is present in the output directory.
func (s *LocalStorage) Exists(name string) (bool, error) {
	_, err := os.Stat(s.Path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", name, err)
}

// Backup copies name to BackupFilename(name), replacing an older backup.
func (s *LocalStorage) Backup(name string) (string, error) {
	src, err := os.Open(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open %s for backup: %w", name, err)
	}
	defer src.Close()

	backup := BackupFilename(name)
	dst, err := os.Create(s.Path(backup))
	if err != nil {
		return "", fmt.Errorf("create backup %s: %w", backup, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy backup %s: %w", backup, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup %s: %w", backup, err)
	}
	return backup, nil
}

// List returns the avatar filenames in the output directory, excluding
// backups. A missing directory yields an empty list.
func (s *LocalStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list output dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, AvatarExt) || IsBackupFilename(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// PersistPolicy selects how an existing avatar is treated on write.
type PersistPolicy int

const (
	// PolicyOverwrite writes unconditionally.
	PolicyOverwrite PersistPolicy = iota

	// PolicyBackupFirst copies an existing file to its backup sibling before
	// overwriting it.
	PolicyBackupFirst
)

// PersistResult describes a completed write.
type PersistResult struct {
	Filename string
	Path     string
	Backup   string // empty when nothing was backed up
	Size     int
}

// Persist writes an avatar through storage according to policy.
func Persist(ctx context.Context, storage Storage, filename string, img GeneratedImage, policy PersistPolicy) (*PersistResult, error) {
	if storage == nil {
		return nil, ErrStorageNotConfigured
	}
	if err := ValidateImage(img); err != nil {
		return nil, err
	}

	res := &PersistResult{Filename: filename, Size: len(img.Data)}
	if policy == PolicyBackupFirst {
		backup, err := storage.Backup(filename)
		if err != nil {
			return nil, err
		}
		res.Backup = backup
	}

	path, err := storage.SaveFile(ctx, img.Data, filename, GetMIMEType(filename))
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

func GetMIMEType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
