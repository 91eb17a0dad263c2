package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT" env-default:"8080"`
	} `yaml:"server"`

	Database struct {
		Driver        string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite3"`
		Path          string `yaml:"path" env:"DB_PATH" env-default:"./todo_service.db"`
		MigrationsDir string `yaml:"migrations_dir" env:"MIGRATIONS_DIR" env-default:"./database/migrations"`
	} `yaml:"database"`

	Cache struct {
		Type          string `yaml:"type" env:"CACHE_TYPE" env-default:"redis"`
		RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
		RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD" env-default:""`
		RedisDB       int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	} `yaml:"cache"`

	Session struct {
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"session_id"`
		TTLHours   int    `yaml:"ttl_hours" env:"SESSION_TTL_HOURS" env-default:"24"`
	} `yaml:"session"`
}

// MustLoad reads configuration from the yaml file named by CONFIG_PATH.
// Without a file, env vars and defaults apply.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("Failed to read config from environment: %v", err)
		}
		return &cfg
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	return &cfg
}
