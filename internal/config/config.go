// Package config holds the process environment configuration and the
// operator-editable content snapshot.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Env is the static process configuration, read once at startup.
type Env struct {
	ListenAddr string `env:"LISTEN_ADDR" env-default:":8080"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`

	WhatsAppToken string `env:"WHATSAPP_TOKEN"`
	PhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID"`
	VerifyToken   string `env:"VERIFY_TOKEN" env-default:"mi-token-secreto-verificacion"`

	AdminToken    string `env:"ADMIN_TOKEN" env-default:"super-seguro-123"`
	AdminWhatsApp string `env:"ADMIN_WHATSAPP"`

	ArkAPIKey string `env:"ARK_API_KEY"`
	ArkModel  string `env:"ARK_MODEL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	ContentPath string `env:"CONTENT_PATH" env-default:"content.yaml"`
}

// Load reads the environment into an Env. A .env file in the working
// directory is loaded first when present; missing files are not an error.
func Load() (*Env, error) {
	_ = godotenv.Load()

	var e Env
	if err := cleanenv.ReadEnv(&e); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if e.WhatsAppToken == "" || e.PhoneNumberID == "" {
		return nil, fmt.Errorf("WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be set")
	}
	return &e, nil
}
