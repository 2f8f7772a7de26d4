package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campushub/campushub-api/internal/utils"
)

// SessionCookieName is the http-only cookie carrying the session token for
// browser clients. API clients send the same token as a bearer header.
const SessionCookieName = "campushub_session"

// SessionProtected returns a middleware that validates the session JWT from
// either the Authorization header or the session cookie and stores the
// authenticated identity in request locals.
func SessionProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return utils.SendErrorWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendErrorWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired session")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendErrorWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims")
		}

		if !bindSessionLocals(c, claims) {
			return utils.SendErrorWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims")
		}

		return c.Next()
	}
}

// SessionOptional populates identity locals when a valid session token is
// present but lets anonymous requests through untouched.
func SessionOptional(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return c.Next()
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			bindSessionLocals(c, claims)
		}
		return c.Next()
	}
}

func bindSessionLocals(c *fiber.Ctx, claims jwt.MapClaims) bool {
	userID := extractUserIDFromClaims(claims)
	if userID == nil {
		return false
	}

	c.Locals("user_id", *userID)
	if role := extractStringClaim(claims, "role"); role != "" {
		c.Locals("user_role", role)
	}
	if username := extractStringClaim(claims, "username"); username != "" {
		c.Locals("username", username)
	}
	if email := extractStringClaim(claims, "email"); email != "" {
		c.Locals("email", email)
	}
	return true
}

func tokenFromRequest(c *fiber.Ctx) string {
	authorization := c.Get("Authorization")
	const bearer = "Bearer "
	if len(authorization) > len(bearer) && strings.EqualFold(authorization[:len(bearer)], bearer) {
		if token := strings.TrimSpace(authorization[len(bearer):]); token != "" {
			return token
		}
	}

	return strings.TrimSpace(c.Cookies(SessionCookieName))
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func extractStringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key]; ok {
		if str, ok := value.(string); ok {
			return strings.TrimSpace(str)
		}
	}
	return ""
}
