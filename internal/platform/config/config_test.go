package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults point at the local backend", func(t *testing.T) {
		t.Setenv("HR_API_URL", "")
		t.Setenv("HR_API_TIMEOUT", "")
		t.Setenv("HR_TOKEN_STORE", "")
		t.Setenv("HR_CONSOLE_ADDR", "")

		cfg := FromEnv()

		assert.Equal(t, DefaultAPIURL, cfg.APIURL)
		assert.Equal(t, 30*time.Second, cfg.APITimeout)
		assert.Equal(t, TokenStoreFile, cfg.TokenStore)
		assert.Equal(t, "hrconsole:token", cfg.Redis.Key)
		assert.NotEmpty(t, cfg.TokenFile)
		assert.Equal(t, "127.0.0.1:3000", cfg.ConsoleAddr, "console listens on loopback only")
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("HR_API_URL", "https://hr.example.com/api")
		t.Setenv("HR_API_TIMEOUT", "0s")
		t.Setenv("HR_TOKEN_STORE", TokenStoreRedis)
		t.Setenv("HR_EMPLOYEE_LIMIT", "50")

		cfg := FromEnv()

		assert.Equal(t, "https://hr.example.com/api", cfg.APIURL)
		assert.Equal(t, time.Duration(0), cfg.APITimeout)
		assert.Equal(t, TokenStoreRedis, cfg.TokenStore)
		assert.Equal(t, 50, cfg.EmployeeListLimit)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Setenv("HR_API_TIMEOUT", "soon")
		t.Setenv("HR_EMPLOYEE_LIMIT", "-3")

		cfg := FromEnv()

		assert.Equal(t, 30*time.Second, cfg.APITimeout)
		assert.Equal(t, 500, cfg.EmployeeListLimit)
	})
}
