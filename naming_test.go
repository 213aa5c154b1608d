package avatargen

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Plato", want: "plato.png"},
		{name: "Marcus Aurelius", want: "marcus-aurelius.png"},
		{name: "Al-Farabi", want: "al-farabi.png"},
		{name: "G. W. F. Hegel", want: "g--w--f--hegel.png"},
		{name: "Søren Kierkegaard", want: "s-ren-kierkegaard.png"},
		{name: "Lao Tzu ", want: "lao-tzu-.png"},
		{name: "1984 Author", want: "1984-author.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.name)
			if got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.name, got, tt.want)
			}
			if again := Filename(tt.name); again != got {
				t.Errorf("Filename is not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestBackupFilename(t *testing.T) {
	if got := BackupFilename("plato.png"); got != "plato.backup.png" {
		t.Errorf("BackupFilename = %q", got)
	}
	if !IsBackupFilename("plato.backup.png") {
		t.Error("plato.backup.png should be a backup name")
	}
	if IsBackupFilename(Filename("Backup")) {
		t.Error("an author named Backup must not look like a backup file")
	}
}
