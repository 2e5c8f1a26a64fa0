package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/vacation-tracker/internal/config"
)

func rateContext(t *testing.T, userID int64) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/vacation/users/7/summary", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/vacation/users/:user_id/summary")
	if userID != 0 {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKeyUsesAuthenticatedUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	c := rateContext(t, 7)
	key := buildRateKey(cfg, c)
	assert.Equal(t, "rl:ip:203.0.113.9:user:7:route:GET /vacation/users/:user_id/summary", key)

	// Without an authenticated user the identity part falls back to anon.
	anon := buildRateKey(cfg, rateContext(t, 0))
	assert.Contains(t, anon, "user:anon")
	assert.NotEqual(t, key, anon)
}

func TestBuildRateKeyStrategies(t *testing.T) {
	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:203.0.113.9"},
		{"user", "rl:user:7"},
		{"user_route", "rl:user:7:route:GET /vacation/users/:user_id/summary"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
			assert.Equal(t, tt.want, buildRateKey(cfg, rateContext(t, 7)))
		})
	}
}
