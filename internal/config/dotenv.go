// Package config loads server and CLI settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the optional environment file read from the working directory.
const EnvFileName = ".env"

// LoadDotEnv loads dir/.env if it exists. Variables already present in the
// environment take priority. A missing file is not an error.
func LoadDotEnv(dir string) error {
	envPath := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(envPath)
}

// LoadDotEnvFromCwd loads .env from the current working directory.
func LoadDotEnvFromCwd() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return LoadDotEnv(cwd)
}
