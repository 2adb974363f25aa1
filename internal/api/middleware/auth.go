package middleware

import (
	"strings"

	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	staffKey = "staff"
	roleKey  = "role"
)

type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// StaffClaims identify the staff member behind a request.
type StaffClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth requires an HS256 bearer token and stores the staff id and role on
// the request.
func Auth(cfg AuthConfig) fiber.Handler {
	secret := []byte(cfg.Secret)

	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(options...)

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		var claims StaffClaims
		token, err := parser.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		if strings.TrimSpace(claims.Subject) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		role := claims.Role
		if role == "" {
			role = constants.RoleStaff
		}

		c.Locals(staffKey, claims.Subject)
		c.Locals(roleKey, role)

		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Role(c) != constants.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin role required")
		}
		return c.Next()
	}
}

func Staff(c *fiber.Ctx) string {
	staff, _ := c.Locals(staffKey).(string)
	return staff
}

func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(roleKey).(string)
	return role
}
