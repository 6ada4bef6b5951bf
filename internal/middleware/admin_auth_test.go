package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ola-fintech/microcredit/internal/config"
	"github.com/ola-fintech/microcredit/internal/user"
)

const testSecret = "test-secret"

func setupAdminApp(t *testing.T) *fiber.App {
	t.Helper()
	users := user.NewMemoryRepository()
	ctx := context.Background()
	if err := users.Create(ctx, user.User{UID: "admin-1", Admin: true}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := users.Create(ctx, user.User{UID: "user-1"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	cfg := config.Config{AdminJWTSecret: testSecret}
	app := fiber.New()
	app.Use(AdminAuth(cfg, users))
	app.Get("/users", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"caller": c.Locals("admin_uid")})
	})
	return app
}

func signToken(t *testing.T, sub, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAdminAuth(t *testing.T) {
	app := setupAdminApp(t)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", fiber.StatusUnauthorized},
		{"malformed header", "Token abc", fiber.StatusUnauthorized},
		{"bad signature", "Bearer " + signToken(t, "admin-1", "wrong-secret"), fiber.StatusUnauthorized},
		{"unknown subject", "Bearer " + signToken(t, "ghost", testSecret), fiber.StatusForbidden},
		{"non admin subject", "Bearer " + signToken(t, "user-1", testSecret), fiber.StatusForbidden},
		{"admin subject", "Bearer " + signToken(t, "admin-1", testSecret), fiber.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/users", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestAdminAuthRejectsExpiredToken(t *testing.T) {
	app := setupAdminApp(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/users", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}
