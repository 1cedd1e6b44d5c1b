package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings, populated from the environment.
// A .env file is loaded first when present.
type Config struct {
	Port           string   `envconfig:"API_PORT" default:"8080"`
	MongoURI       string   `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase  string   `envconfig:"MONGO_DATABASE" default:"healthkonnect"`
	JWTSecret      string   `envconfig:"JWT_SECRET"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`

	// Optional seed admin account, created at startup if absent. This is
	// the only way an admin comes into existence; there is no token
	// bypass in any code path.
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
