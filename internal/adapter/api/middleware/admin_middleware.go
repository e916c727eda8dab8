package middleware

import (
	"github.com/labstack/echo/v4"

	"sociogram/internal/domain/entity"
	"sociogram/pkg/errors"
)

type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// RequireAdmin gates a route to admin and super-admin accounts. It must
// sit behind Authenticate.
func (m *AdminMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return errors.Unauthorized("Authentication required", nil)
		}
		if user.Role != entity.RoleAdmin && user.Role != entity.RoleSuperAdmin {
			return errors.Forbidden("Admin access required", nil)
		}
		return next(c)
	}
}

// RequireSuperAdmin gates a route to super-admin accounts only.
func (m *AdminMiddleware) RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return errors.Unauthorized("Authentication required", nil)
		}
		if user.Role != entity.RoleSuperAdmin {
			return errors.Forbidden("Super admin access required", nil)
		}
		return next(c)
	}
}
