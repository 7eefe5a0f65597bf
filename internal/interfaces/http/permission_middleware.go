package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
)

// authorizer es el contrato mínimo que necesita el middleware para consultar
// el gate de permisos. Lo implementa *access.Gate; el uso de interfaz evita el
// import circular y facilita fakes en tests.
type authorizer interface {
	Authorize(ctx context.Context, roleID int64, permissionName string) error
}

// RequirePermission devuelve un middleware Fiber que consulta el gate de
// acceso antes de ejecutar el handler. Debe usarse DESPUÉS de AuthMiddleware
// (necesita LocalRoleID). En denegación el request muere acá: cero efectos
// secundarios, ni evento del ledger ni entrada de auditoría.
//
// Comportamiento:
//   - 403 Forbidden → el rol no tiene el permiso (incluye rol sin permisos).
//   - 503 Service Unavailable → fallo de infraestructura al consultar el registro.
//   - 401 si no hay identidad en el contexto (AuthMiddleware debió ponerla).
func RequirePermission(permissionName string, gate authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "identidad no resuelta en el token",
			})
		}
		err := gate.Authorize(c.Context(), GetRoleID(c), permissionName)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Code:    "FORBIDDEN",
					Message: "el rol no tiene el permiso '" + permissionName + "'",
				})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}
		return c.Next()
	}
}
