package config

import "os"

// GetEnv returns the value of the environment variable key, or fallback if unset.
func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
