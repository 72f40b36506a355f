package middleware

import (
	"errors"
	"strings"

	apperrors "contas/internal/errors"
	"contas/internal/handlers"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

// RequireAuth accepts either a Bearer JWT or HTTP Basic credentials. Basic
// credentials go through the same lockout accounting as a login.
func RequireAuth(tokenService services.TokenServiceInterface, authService services.AuthServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return handlers.SendError(c, apperrors.AuthMissingToken)
			}

			if hasScheme(authHeader, "basic") {
				return basicAuth(c, next, authService)
			}

			token, err := tokenService.ExtractTokenFromHeader(authHeader)
			if err != nil {
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, apperrors.AuthExpiredToken)
				}
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat)
			}

			userID, err := claims.OwnerID()
			if err != nil {
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat, apperrors.WithDetails("Invalid user ID in token"))
			}

			c.Set("user_id", userID)
			c.Set("username", claims.Username)
			c.Set("auth_scheme", "bearer")

			return next(c)
		}
	}
}

func basicAuth(c echo.Context, next echo.HandlerFunc, authService services.AuthServiceInterface) error {
	username, password, ok := c.Request().BasicAuth()
	if !ok || username == "" {
		return handlers.SendError(c, apperrors.AuthInvalidTokenFormat)
	}

	user, err := authService.Authenticate(username, password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountLocked):
			return handlers.SendError(c, apperrors.AuthAccountLocked)
		case errors.Is(err, services.ErrInvalidCredentials):
			return handlers.SendError(c, apperrors.AuthInvalidCredentials)
		default:
			return handlers.SendSystemError(c, err)
		}
	}

	c.Set("user_id", user.ID)
	c.Set("username", user.Username)
	c.Set("auth_scheme", "basic")

	return next(c)
}

func hasScheme(header, scheme string) bool {
	prefix := scheme + " "
	return len(header) >= len(prefix) && strings.EqualFold(header[:len(prefix)], prefix)
}
