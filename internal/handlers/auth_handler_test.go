package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/services"
	"contas/internal/services/service_mocks"
	"contas/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

type AuthHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	authService *service_mocks.MockAuthServiceInterface
	handler     *AuthHandler
	e           *echo.Echo
}

func (s *AuthHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.authService = service_mocks.NewMockAuthServiceInterface(s.ctrl)
	s.handler = NewAuthHandler(s.authService)
	s.e = newTestEcho()
}

func (s *AuthHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthHandlerSuite) registerBody() map[string]string {
	return map[string]string{
		"username":   gofakeit.Username(),
		"email":      gofakeit.Email(),
		"password":   "orcamento-2024",
		"first_name": gofakeit.FirstName(),
		"last_name":  gofakeit.LastName(),
	}
}

func (s *AuthHandlerSuite) TestRegister_Success() {
	body := s.registerBody()
	user := &models.User{
		ID:        uuid.New(),
		Username:  body["username"],
		Email:     body["email"],
		FirstName: body["first_name"],
		CreatedAt: time.Now(),
	}

	s.authService.EXPECT().
		Register(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(req *dto.RegisterRequest, ip, ua string) (*models.User, error) {
			s.Equal(body["username"], req.Username)
			s.Equal(body["password"], req.Password)
			return user, nil
		})

	c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", body, uuid.Nil)
	s.NoError(s.handler.Register(c))
	s.Equal(http.StatusCreated, rec.Code)

	var profile dto.UserProfileResponse
	decodeData(s.T(), rec, &profile)
	s.Equal(user.ID.String(), profile.ID)
	s.Equal(user.Username, profile.Username)
	s.NotContains(rec.Body.String(), "password")
}

func (s *AuthHandlerSuite) TestRegister_Conflicts() {
	testCases := []struct {
		err  error
		code apperrors.ErrorCode
	}{
		{services.ErrUserAlreadyExists, apperrors.AuthUsernameTaken},
		{services.ErrEmailAlreadyExists, apperrors.AuthEmailTaken},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.authService.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

			c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", s.registerBody(), uuid.Nil)
			s.NoError(s.handler.Register(c))
			s.Equal(http.StatusConflict, rec.Code)
			s.Equal(string(tc.code), decodeError(s.T(), rec).Error.Code)
		})
	}
}

func (s *AuthHandlerSuite) TestRegister_WeakPassword() {
	wrapped := fmt.Errorf("failed to hash password: %w",
		fmt.Errorf("password validation failed: %w", services.ErrPasswordAllNumeric))
	s.authService.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, wrapped)

	body := s.registerBody()
	body["password"] = "1234567890"
	c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", body, uuid.Nil)
	s.NoError(s.handler.Register(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	resp := decodeError(s.T(), rec)
	s.Equal(string(apperrors.AuthWeakPassword), resp.Error.Code)
	s.Equal([]string{services.ErrPasswordAllNumeric.Error()}, resp.Error.Details)
}

func (s *AuthHandlerSuite) TestRegister_ValidationError() {
	body := s.registerBody()
	body["email"] = "not-an-email"
	delete(body, "username")

	c, _ := newContext(s.e, http.MethodPost, "/api/v1/auth/register", body, uuid.Nil)
	err := s.handler.Register(c)

	fields, ok := validation.FieldErrors(err)
	s.Require().True(ok)
	s.Contains(fields, "email")
	s.Contains(fields, "username")
}

func (s *AuthHandlerSuite) TestRegister_InvalidJSON() {
	c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", "{not json", uuid.Nil)
	s.NoError(s.handler.Register(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apperrors.ValidationGeneral), decodeError(s.T(), rec).Error.Code)
}

func (s *AuthHandlerSuite) TestRegister_SystemError() {
	s.authService.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/register", s.registerBody(), uuid.Nil)
	s.NoError(s.handler.Register(c))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "db down")
}

func (s *AuthHandlerSuite) TestLogin() {
	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	s.Run("success", func() {
		s.authService.EXPECT().
			Login(&dto.LoginRequest{Username: "lucas", Password: "orcamento-2024"}, gomock.Any(), gomock.Any()).
			Return(&dto.TokenResponse{AccessToken: "jwt", TokenType: "Bearer", ExpiresAt: expiresAt}, nil)

		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "lucas", "password": "orcamento-2024"}, uuid.Nil)
		s.NoError(s.handler.Login(c))
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"access_token":"jwt"`)
	})

	s.Run("invalid credentials", func() {
		s.authService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, services.ErrInvalidCredentials)

		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "lucas", "password": "wrong"}, uuid.Nil)
		s.NoError(s.handler.Login(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal(string(apperrors.AuthInvalidCredentials), decodeError(s.T(), rec).Error.Code)
	})

	s.Run("locked", func() {
		s.authService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, services.ErrAccountLocked)

		c, rec := newContext(s.e, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "lucas", "password": "whatever"}, uuid.Nil)
		s.NoError(s.handler.Login(c))
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal(string(apperrors.AuthAccountLocked), decodeError(s.T(), rec).Error.Code)
	})

	s.Run("missing password", func() {
		c, _ := newContext(s.e, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "lucas"}, uuid.Nil)
		_, ok := validation.FieldErrors(s.handler.Login(c))
		s.True(ok)
	})
}

func (s *AuthHandlerSuite) TestMe() {
	userID := uuid.New()

	s.Run("success", func() {
		s.authService.EXPECT().GetProfile(userID).Return(&models.User{ID: userID, Username: "lucas", Email: "lucas@example.com"}, nil)

		c, rec := newContext(s.e, http.MethodGet, "/api/v1/auth/me", nil, userID)
		s.NoError(s.handler.Me(c))
		s.Equal(http.StatusOK, rec.Code)

		var profile dto.UserProfileResponse
		decodeData(s.T(), rec, &profile)
		s.Equal("lucas", profile.Username)
	})

	s.Run("no user in context", func() {
		c, rec := newContext(s.e, http.MethodGet, "/api/v1/auth/me", nil, uuid.Nil)
		s.NoError(s.handler.Me(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("user deleted", func() {
		s.authService.EXPECT().GetProfile(userID).Return(nil, services.ErrUserNotFound)

		c, rec := newContext(s.e, http.MethodGet, "/api/v1/auth/me", nil, userID)
		s.NoError(s.handler.Me(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
