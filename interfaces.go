package avatargen

import "context"

// ImageGenerator is the core interface for image generation backends.
// Implement this interface to add support for new models or transports.
//
// The first model returned by Models() is considered the default model.
type ImageGenerator interface {
	// Generate creates images from a text prompt.
	Generate(ctx context.Context, prompt string, genConfig *GenerateConfig) (*GenerateResult, error)

	// Models returns the model definitions supported by this provider.
	// The first model in the list is the default.
	Models() []ModelInfo

	// Close releases any resources held by the generator.
	Close() error
}

// Storage persists generated avatars. LocalStorage is the on-disk
// implementation used by the CLI.
type Storage interface {
	// SaveFile writes data under name and returns the path it was written to.
	SaveFile(ctx context.Context, data []byte, name string, contentType string) (string, error)

	// Exists reports whether a file with the given name is already stored.
	Exists(name string) (bool, error)

	// Backup copies an existing file to its backup sibling and returns the
	// backup name. It returns "" and no error when there is nothing to back up.
	Backup(name string) (string, error)
}
