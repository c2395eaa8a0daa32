package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dinukasrimal/agency-sync-api/internal/application/dto"
	"github.com/dinukasrimal/agency-sync-api/pkg/jwt"
)

// Locals keys para Subject y Caller en Fiber.
const (
	LocalSubject = "subject"
	LocalCaller  = "caller"
)

// AuthMiddleware valida el Bearer Token JWT que protege el gateway de sync.
// Con secret vacío el endpoint queda abierto (solo development): no hay
// manejo de sesiones ni usuarios en este servicio.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtSecret == "" {
			return c.Next()
		}
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		subject, caller, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSubject, subject)
		c.Locals(LocalCaller, caller)
		return c.Next()
	}
}

// GetSubject devuelve el subject del token (después del middleware de auth).
func GetSubject(c *fiber.Ctx) string {
	v := c.Locals(LocalSubject)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetCaller devuelve el claim caller del token (después del middleware de auth).
func GetCaller(c *fiber.Ctx) string {
	v := c.Locals(LocalCaller)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
