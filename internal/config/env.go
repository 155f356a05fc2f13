package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first readable file wins.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads variables from the first available env file. Variables already
// present in the process environment are never overwritten.
func loadEnvFiles() (string, error) {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", errors.New("no .env file found")
}
