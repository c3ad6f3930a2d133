// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — общая структура для хранения настроек.
type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	Storage    `yaml:"storage"`
	Auth       `yaml:"auth"`
	Generation `yaml:"generation"`
	Metrics    `yaml:"metrics"`
}

// Storage — настройки key-value хранилища.
// Driver: sqlite (файл Path) или memory (для тестов и локальных запусков).
type Storage struct {
	Driver string `yaml:"driver" env-default:"sqlite"`
	Path   string `yaml:"path" env-default:"legalletter.db"`
}

// Auth — настройки аутентификации и сессии.
type Auth struct {
	AdminSecret  string        `yaml:"admin_secret" env:"ADMIN_SECRET" env-default:"ADMIN_SECRET_2025"`
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-default:"dev-only-secret"`
	SessionTTL   time.Duration `yaml:"session_ttl" env-default:"24h"`
}

// Generation — настройки симулируемого конвейера генерации писем.
type Generation struct {
	ProcessingDelay time.Duration `yaml:"processing_delay" env-default:"8s"`
}

// Metrics — настройки наблюдаемости. Пустой Address отключает
// ops-листенер prometheus.
type Metrics struct {
	Address         string        `yaml:"address"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"30s"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH,
// и завершает процесс при любой ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  Path: %s\n"+
			"Auth:\n"+
			"  SessionTTL: %s\n"+
			"Generation:\n"+
			"  ProcessingDelay: %s\n"+
			"Metrics:\n"+
			"  Address: %s\n"+
			"  RefreshInterval: %s\n",
		c.Env,
		c.Driver,
		c.Path,
		c.SessionTTL,
		c.ProcessingDelay,
		c.Address,
		c.RefreshInterval,
	)
}
