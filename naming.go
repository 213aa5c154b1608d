package avatargen

import (
	"regexp"
	"strings"
)

const (
	// AvatarExt is the extension of every avatar file, whatever the model returns.
	AvatarExt = ".png"

	// BackupSuffix is inserted before AvatarExt for the copy kept by a
	// regeneration. Normalized stems never contain '.', so backups cannot
	// shadow a real avatar.
	BackupSuffix = ".backup"

	filenameSeparator = "-"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// Filename derives the stable avatar filename for a display name: the
// lowercased name with every rune outside [a-z0-9] replaced by '-', plus
// AvatarExt. "Marcus Aurelius" becomes "marcus-aurelius.png".
//
// Distinct names may collide ("Al-Farabi" and "Al Farabi"); callers do not
// deduplicate beyond exact names.
func Filename(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), filenameSeparator) + AvatarExt
}

// BackupFilename returns the sibling name a regeneration copies the previous
// avatar to: "plato.png" becomes "plato.backup.png".
func BackupFilename(filename string) string {
	return strings.TrimSuffix(filename, AvatarExt) + BackupSuffix + AvatarExt
}

// IsBackupFilename reports whether filename was produced by BackupFilename.
func IsBackupFilename(filename string) bool {
	return strings.HasSuffix(filename, BackupSuffix+AvatarExt)
}
