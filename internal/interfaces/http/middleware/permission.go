package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/isp/backend/internal/interfaces/http/dto"
)

// Operator roles carried in access tokens
const (
	RoleAdmin      = "admin"
	RoleOperator   = "operador"
	RoleTechnician = "tecnico"
)

// RequireAnyRole lets the request through when the token carries one of
// roles. Admins always pass. Anonymous requests only reach this middleware
// when auth is optional, and are refused.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		if claims.HasRole(RoleAdmin) || slices.ContainsFunc(roles, claims.HasRole) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden, "Operator lacks the required role", GetRequestID(c)))
	}
}
