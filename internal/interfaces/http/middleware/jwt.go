package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/isp/backend/internal/infrastructure/auth"
	"github.com/isp/backend/internal/infrastructure/logger"
	"github.com/isp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

var errMissingAuthHeader = errors.New("missing authorization header")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Requests to these exact paths pass without a token
	SkipPaths []string
	// Optional lets requests without an Authorization header through
	// anonymously. A header that is present must still be valid.
	Optional bool
	Logger   *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/metrics"},
	}
}

// JWTAuthMiddleware requires a valid bearer token
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// OptionalJWTAuthMiddleware authenticates when a token is sent
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	cfg := DefaultJWTConfig(jwtService)
	cfg.Optional = true
	return JWTAuthMiddlewareWithConfig(cfg)
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		for _, skip := range cfg.SkipPaths {
			if c.Request.URL.Path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			if cfg.Optional {
				c.Next()
				return
			}
			abortUnauthorized(c, log, errMissingAuthHeader)
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, log, auth.ErrInvalidToken)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
		if token == "" {
			abortUnauthorized(c, log, auth.ErrInvalidToken)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, log, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUsernameKey, claims.Username)

		ctx, _ := logger.WithPrincipal(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.Username)
		c.Request = c.Request.WithContext(ctx)

		log.Debug("JWT authentication successful",
			zap.String("operator_id", claims.Subject),
			zap.String("username", claims.Username))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, errMissingAuthHeader):
		message = "Missing authorization header"
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUsername):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTClaims returns the claims of an authenticated request, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetPrincipal returns the authenticated username, or "" for anonymous requests
func GetPrincipal(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}
