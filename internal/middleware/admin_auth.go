package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ola-fintech/microcredit/internal/config"
	"github.com/ola-fintech/microcredit/internal/user"
)

// AdminAuth validates the bearer token issued by the identity provider and
// requires the subject to be a user with the admin flag set.
func AdminAuth(cfg config.Config, users user.Repository) fiber.Handler {
	secret := []byte(cfg.AdminJWTSecret)
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return fiber.NewError(http.StatusUnauthorized, "invalid token subject")
		}

		u, err := users.FindByUID(c.UserContext(), sub)
		if err != nil || u == nil || !u.Admin {
			return fiber.NewError(http.StatusForbidden, "admin access required")
		}

		c.Locals("admin_uid", sub)
		return c.Next()
	}
}
