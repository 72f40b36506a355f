package handlers

import (
	"errors"
	"net/http"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/services"

	"github.com/labstack/echo/v4"
)

var passwordPolicyErrors = []error{
	services.ErrPasswordEmpty,
	services.ErrPasswordTooShort,
	services.ErrPasswordTooLong,
	services.ErrPasswordAllNumeric,
	services.ErrPasswordAllSameChar,
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService services.AuthServiceInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user.
//
// Method: POST /api/v1/auth/register
// Success: 201 with the user profile
// Errors: 400 VALIDATION_001 or AUTH_008, 409 AUTH_006 or AUTH_007
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.authService.Register(&req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			return SendError(c, apperrors.AuthUsernameTaken)
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return SendError(c, apperrors.AuthEmailTaken)
		}
		for _, policyErr := range passwordPolicyErrors {
			if errors.Is(err, policyErr) {
				return SendError(c, apperrors.AuthWeakPassword, apperrors.WithDetails(policyErr.Error()))
			}
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toUserProfileResponse(user),
		Message: "User registered successfully",
	})
}

// Login exchanges a username and password for an access token.
//
// Method: POST /api/v1/auth/login
// Success: 200 dto.TokenResponse
// Errors: 401 AUTH_001, 403 AUTH_005
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, apperrors.ValidationGeneral, apperrors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	tokens, err := h.authService.Login(&req, getClientIP(c), c.Request().UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountLocked):
			return SendError(c, apperrors.AuthAccountLocked)
		case errors.Is(err, services.ErrInvalidCredentials):
			return SendError(c, apperrors.AuthInvalidCredentials)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, tokens)
}

// Me returns the authenticated user's profile.
//
// Method: GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apperrors.AuthMissingToken)
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return SendError(c, apperrors.AuthInvalidTokenFormat, apperrors.WithDetails("User no longer exists"))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: toUserProfileResponse(user)})
}
