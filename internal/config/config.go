// Package config provides application configuration management through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel string

	// Argon2 cost parameters applied to freshly created hash-algorithm-1 and
	// hash-algorithm-2 header descriptors. Existing databases keep whatever
	// parameters are already stored in their header.
	Argon2Iterations  uint8
	Argon2Parallelism uint8
	Argon2MemoryMiB   uint16

	// HistoryDepth is the default maximum number of retained versions per
	// entity for freshly created databases.
	HistoryDepth uint8

	// DefaultEncryptionAlgorithm selects the cipher used for both regions of
	// a freshly created database: 1 = AES, 2 = ChaCha20.
	DefaultEncryptionAlgorithm uint8

	// QS3 remote location defaults, loaded from the environment. No command
	// reads them: a qs3:// location flag supplies its own bucket, region,
	// endpoint and keys.
	QS3Bucket    string
	QS3Region    string
	QS3Endpoint  string
	QS3AccessKey string
	QS3SecretKey string

	// LockTimeout bounds how long a facade call waits to acquire the
	// single-writer/shared-reader lock before giving up.
	LockTimeout time.Duration
}

// Load loads configuration from environment variables.
// It first attempts to load a .env file by searching recursively from the current directory
// up to the root directory. If no .env file is found, it continues with existing environment variables.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		Argon2Iterations:  uint8(env.GetInt("ARGON2_ITERATIONS", 3)),
		Argon2Parallelism: uint8(env.GetInt("ARGON2_PARALLELISM", 4)),
		Argon2MemoryMiB:   uint16(env.GetInt("ARGON2_MEMORY_MIB", 64)),

		HistoryDepth: uint8(env.GetInt("HISTORY_DEPTH", 10)),

		DefaultEncryptionAlgorithm: uint8(env.GetInt("DEFAULT_ENCRYPTION_ALGORITHM", 1)),

		QS3Bucket:    env.GetString("QS3_BUCKET", ""),
		QS3Region:    env.GetString("QS3_REGION", "us-east-1"),
		QS3Endpoint:  env.GetString("QS3_ENDPOINT", ""),
		QS3AccessKey: env.GetString("QS3_ACCESS_KEY", ""),
		QS3SecretKey: env.GetString("QS3_SECRET_KEY", ""),

		LockTimeout: env.GetDuration("LOCK_TIMEOUT", 30, time.Second),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
