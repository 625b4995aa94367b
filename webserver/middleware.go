package webserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"cryptoai/utils/auth"
	"cryptoai/utils/fiberhelper/response"
)

const localsUserID = "uid"

// JWTAuth verifies the session token from the Authorization header (or the
// session cookie the dashboard sets) and stores the user ID in locals.
// Any failure answers 401 with the body the dashboard client expects.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies("session")
		}
		if token == "" {
			return response.Ext{Ctx: c}.Unauthorized()
		}

		claims, err := auth.VerifySessionToken(secret, token)
		if err != nil {
			return response.Ext{Ctx: c}.Unauthorized()
		}

		c.Locals(localsUserID, claims.UserID)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// UserID reads the authenticated user set by JWTAuth.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(localsUserID).(string); ok {
		return id
	}
	return ""
}
