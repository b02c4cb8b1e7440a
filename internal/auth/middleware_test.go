package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

func newGatedApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"detail": domainErr.Message})
		},
	})

	mw := NewAuthMiddleware(tm, zap.NewNop())
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"sub": claims.Subject, "is_admin": claims.IsAdmin})
	})
	return app
}

func TestGateAttachesClaims(t *testing.T) {
	tm := NewTokenManager("gate-secret", 60)
	app := newGatedApp(t, tm)

	token, _, err := tm.Generate("u1", true)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u1", body["sub"])
	assert.Equal(t, true, body["is_admin"])
}

func TestGateRejectsRequests(t *testing.T) {
	tm := NewTokenManager("gate-secret", 60)
	other := NewTokenManager("other-secret", 60)
	app := newGatedApp(t, tm)

	foreign, _, err := other.Generate("u1", false)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		detail string
	}{
		"missing header":   {"", "Missing authorization header"},
		"lowercase scheme": {"bearer abc", "Invalid authorization format"},
		"garbage token":    {"Bearer garbage", "Invalid token"},
		"wrong secret":     {"Bearer " + foreign, "Invalid token"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, 401, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]string
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tc.detail, body["detail"])
		})
	}
}

func TestGateHeaderLookupIsCaseInsensitive(t *testing.T) {
	tm := NewTokenManager("gate-secret", 60)
	app := newGatedApp(t, tm)

	token, _, err := tm.Generate("u1", false)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
