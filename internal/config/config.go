package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server reads from the process environment.
// MongoURI empty means the server runs on the in-memory store.
type Config struct {
	Port                string `envconfig:"PORT" default:"3000"`
	MongoURI            string `envconfig:"MONGO_URI"`
	DatabaseName        string `envconfig:"DB_NAME" default:"smart_db"`
	FirebaseCredentials string `envconfig:"FIREBASE_CREDENTIALS"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	// .env is a local convenience; absence is not an error
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
