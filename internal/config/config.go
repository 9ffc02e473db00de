package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// API holds the task API server configuration.
type API struct {
	Port        string `envconfig:"PORT" default:"3000"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName      string `envconfig:"DB_NAME" default:"taskboard"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	SeedDemo    bool   `envconfig:"SEED_DEMO_USERS" default:"true"`
}

// DSN returns DATABASE_URL when set, otherwise a DSN assembled from the
// individual DB_* settings.
func (c API) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// Web holds the presentation server configuration.
type Web struct {
	Port       string `envconfig:"WEB_PORT" default:"3001"`
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
}

func LoadAPI() (API, error) {
	var cfg API
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func LoadWeb() (Web, error) {
	var cfg Web
	err := envconfig.Process("", &cfg)
	return cfg, err
}
