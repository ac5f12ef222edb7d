package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthMiddleware lee el Bearer Token si viene. Sin header la petición sigue como anónima
// (las operaciones abiertas no exigen identidad); un token presente pero inválido es 401.
// El llamador queda en c.UserContext() para que los casos de uso lo consulten.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString, jwt.TokenAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		caller := access.Caller{
			UserID:     entity.UserID(claims.UserID),
			Email:      claims.Email,
			Name:       claims.Name,
			Role:       claims.Role,
			AccessZone: claims.AccessZone,
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.SetUserContext(access.WithCaller(c.UserContext(), caller))
		return c.Next()
	}
}

// RequireAuth exige un llamador autenticado (después de AuthMiddleware).
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := GetCaller(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		return c.Next()
	}
}

// RequirePolicy autoriza op según la política configurada (después de AuthMiddleware).
func RequirePolicy(policy *access.Policy, op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.Check(c.UserContext(), op); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// GetCaller devuelve el llamador autenticado, si lo hay.
func GetCaller(c *fiber.Ctx) (access.Caller, bool) {
	return access.CallerFrom(c.UserContext())
}

// GetUserID devuelve el UserID del token (vacío si la petición es anónima).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token (vacío si la petición es anónima).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
