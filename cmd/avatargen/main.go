// Command avatargen generates portrait avatars for the authors in a catalog.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mhpenta/avatargen/internal/commands"
)

func main() {
	app := commands.NewApp(commands.Options{})
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(commands.ExitCode(err))
	}
}
