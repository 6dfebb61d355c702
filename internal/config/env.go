package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/doclinks/internal/logfields"
)

// envFiles are read in priority order; a variable set by an earlier file or
// by the process environment is never overwritten.
var envFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads .env.local and .env from the working directory when
// present and returns the files that were applied.
func LoadEnvFiles() []string {
	var loaded []string
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.Path(name))
		loaded = append(loaded, name)
	}
	return loaded
}
