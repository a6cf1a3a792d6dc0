package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envPaths are searched in order; the first file found wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from a .env file if it exists.
// Variables already present in the process environment are not overridden.
func LoadEnv() error {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}
