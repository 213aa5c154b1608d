package avatargen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocalStorage_SaveExistsList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "avatars")
	s := NewLocalStorage(dir)
	ctx := context.Background()

	if names, err := s.List(); err != nil || names != nil {
		t.Fatalf("List on missing dir = %v, %v", names, err)
	}
	if ok, err := s.Exists("plato.png"); err != nil || ok {
		t.Fatalf("Exists before save = %v, %v", ok, err)
	}

	path, err := s.SaveFile(ctx, []byte("one"), "plato.png", "image/png")
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if path != filepath.Join(dir, "plato.png") {
		t.Errorf("SaveFile path = %q", path)
	}
	if ok, _ := s.Exists("plato.png"); !ok {
		t.Error("Exists after save should be true")
	}

	if _, err := s.SaveFile(ctx, []byte("x"), "plato.backup.png", "image/png"); err != nil {
		t.Fatalf("SaveFile backup: %v", err)
	}
	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]string{"plato.png"}, names); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalStorage_SaveFileHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLocalStorage(t.TempDir()).SaveFile(ctx, []byte("x"), "a.png", "image/png"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPersist_BackupFirstKeepsOnlyPreviousVersion(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	versions := []string{"v1", "v2", "v3"}
	for i, v := range versions {
		res, err := Persist(ctx, s, "kant.png", GeneratedImage{Data: []byte(v), MIMEType: "image/png"}, PolicyBackupFirst)
		if err != nil {
			t.Fatalf("Persist %s: %v", v, err)
		}
		if i == 0 && res.Backup != "" {
			t.Errorf("first write should not back anything up, got %q", res.Backup)
		}
		if i > 0 && res.Backup != "kant.backup.png" {
			t.Errorf("write %d backup = %q", i, res.Backup)
		}
	}

	current, _ := os.ReadFile(filepath.Join(dir, "kant.png"))
	backup, _ := os.ReadFile(filepath.Join(dir, "kant.backup.png"))
	if string(current) != "v3" || string(backup) != "v2" {
		t.Errorf("current = %q, backup = %q; want v3 and v2", current, backup)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected exactly one avatar and one backup, found %d files", len(entries))
	}
}

func TestPersist_RejectsInvalidImage(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	_, err := Persist(context.Background(), s, "hume.png", GeneratedImage{}, PolicyOverwrite)
	if !errors.Is(err, ErrEmptyImageData) {
		t.Errorf("expected ErrEmptyImageData, got %v", err)
	}
	if ok, _ := s.Exists("hume.png"); ok {
		t.Error("nothing should be written for an invalid image")
	}

	if _, err := Persist(context.Background(), nil, "hume.png", GeneratedImage{Data: []byte("x")}, PolicyOverwrite); !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("expected ErrStorageNotConfigured, got %v", err)
	}
}

func TestPersist_WritesBytesWhateverTheMIMEType(t *testing.T) {
	dir := t.TempDir()
	img := GeneratedImage{Data: []byte("RIFF....WEBPVP8 "), MIMEType: "application/octet-stream"}

	res, err := Persist(context.Background(), NewLocalStorage(dir), "hume.png", img, PolicyOverwrite)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	got, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read avatar: %v", err)
	}
	if diff := cmp.Diff(img.Data, got); diff != "" {
		t.Errorf("stored bytes differ (-want +got):\n%s", diff)
	}
}

func TestGetMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.png":  "image/png",
		"a.JPG":  "image/jpeg",
		"a.webp": "image/webp",
		"a":      "image/png",
	}
	for in, want := range tests {
		if got := GetMIMEType(in); got != want {
			t.Errorf("GetMIMEType(%q) = %q, want %q", in, got, want)
		}
	}
}
