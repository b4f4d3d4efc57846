package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eiescz/idiomasbot/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("WHATSAPP_TOKEN", "token-123")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "phone-456")
	t.Setenv("REDIS_DB", "2")

	env, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-123", env.WhatsAppToken)
	assert.Equal(t, "phone-456", env.PhoneNumberID)
	assert.Equal(t, 2, env.RedisDB)

	// Defaults.
	assert.Equal(t, ":8080", env.ListenAddr)
	assert.Equal(t, "info", env.LogLevel)
	assert.Equal(t, "content.yaml", env.ContentPath)
}

func TestLoad_RequiresWhatsAppCredentials(t *testing.T) {
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")

	_, err := config.Load()
	assert.Error(t, err)
}
