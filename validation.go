package avatargen

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validation errors
var (
	ErrEmptyPrompt    = errors.New("prompt cannot be empty")
	ErrEmptyName      = errors.New("author name cannot be empty")
	ErrNameTooLong    = errors.New("author name exceeds maximum length")
	ErrEmptyImageData = errors.New("image data cannot be empty")
	ErrImageTooLarge  = errors.New("image data exceeds maximum size")
)

const (
	// MaxImageSize is the maximum accepted size of a generated image (20MB)
	MaxImageSize = 20 * 1024 * 1024

	// MaxNameLength bounds display names so derived filenames stay portable.
	MaxNameLength = 200
)

// ValidatePrompt validates a text prompt.
func ValidatePrompt(prompt string) error {
	if prompt == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateName validates a work item's display name.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("%w: %d runes (max %d)", ErrNameTooLong, n, MaxNameLength)
	}
	return nil
}

// ValidateImage checks a generated image before it is written to disk. The
// MIME type is not checked: the bytes are stored as the provider sent them.
func ValidateImage(img GeneratedImage) error {
	if len(img.Data) == 0 {
		return ErrEmptyImageData
	}
	if len(img.Data) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), MaxImageSize)
	}
	return nil
}
