package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"veda-quiz/internal/config"
	"veda-quiz/internal/logger"
	"veda-quiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Initialize(config.LoggerConfig{Level: "error", Env: "test"})
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		PlayerTokenSecret: "test-secret",
		PlayerTokenTTL:    time.Hour,
	}
}

func newPlayerTestApp(authCfg config.AuthConfig) *fiber.App {
	app := fiber.New()
	app.Use(middleware.PlayerIdentity(authCfg))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(middleware.PlayerID(c))
	})
	return app
}

func TestPlayerIdentity_MintsIdentityWithoutToken(t *testing.T) {
	app := newPlayerTestApp(testAuthConfig())

	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := resp.Header.Get("X-Player-Token")
	assert.NotEmpty(t, token)
}

func TestPlayerIdentity_KeepsIdentityAcrossRequests(t *testing.T) {
	app := newPlayerTestApp(testAuthConfig())

	first := httptest.NewRequest("GET", "/whoami", nil)
	firstResp, err := app.Test(first)
	require.NoError(t, err)
	defer firstResp.Body.Close()
	token := firstResp.Header.Get("X-Player-Token")
	require.NotEmpty(t, token)
	firstID := readBody(t, firstResp)

	second := httptest.NewRequest("GET", "/whoami", nil)
	second.Header.Set("X-Player-Token", token)
	secondResp, err := app.Test(second)
	require.NoError(t, err)
	defer secondResp.Body.Close()
	secondID := readBody(t, secondResp)

	assert.Equal(t, firstID, secondID)
}

func TestPlayerIdentity_InvalidTokenGetsFreshIdentity(t *testing.T) {
	app := newPlayerTestApp(testAuthConfig())

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Player-Token", "not-a-jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Player-Token"))
	assert.NotEmpty(t, readBody(t, resp))
}

func TestPlayerIdentity_WrongSecretRejected(t *testing.T) {
	issuing := newPlayerTestApp(testAuthConfig())
	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := issuing.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	token := resp.Header.Get("X-Player-Token")
	originalID := readBody(t, resp)

	other := newPlayerTestApp(config.AuthConfig{PlayerTokenSecret: "different-secret", PlayerTokenTTL: time.Hour})
	replay := httptest.NewRequest("GET", "/whoami", nil)
	replay.Header.Set("X-Player-Token", token)
	replayResp, err := other.Test(replay)
	require.NoError(t, err)
	defer replayResp.Body.Close()

	assert.NotEqual(t, originalID, readBody(t, replayResp))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
