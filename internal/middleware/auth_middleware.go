package middleware

import (
	"strings"

	"go-taskboard-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and puts the caller's identity and
// permission IDs in the request context. The token is self-contained; no
// lookup happens here.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user_id", claims.UserID.String())
		c.Locals("username", claims.Username)
		c.Locals("user_permissions", claims.Permissions)

		return c.Next()
	}
}

// RequirePermission rejects the request unless the token carries the given
// permission ID. Route-level gate for operations that touch no existing row;
// row-scoped checks stay in the service so absent rows still read as 404.
func RequirePermission(required uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		permissions, ok := c.Locals("user_permissions").([]uint)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No permissions found"})
		}

		for _, p := range permissions {
			if p == required {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{"error": "Forbidden: missing required permission"})
	}
}
