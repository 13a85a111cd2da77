package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads a .env file next to the executable, falling back to the working
// directory. Variables already set in the environment win. Returns the loaded path,
// or "" when no file was found.
func LoadEnvFile() string {
	var candidates []string
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}

	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}

		slog.Info("Loading configuration from .env file", "path", envFile)
		if err := godotenv.Load(envFile); err != nil {
			slog.Warn("Failed to load .env file", "error", err)
			return ""
		}
		return envFile
	}

	slog.Debug("No .env file found (using environment variables or defaults)")
	return ""
}
