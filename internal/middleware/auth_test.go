package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contas/internal/config"
	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/services"
	"contas/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestAuthMiddleware(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

type AuthMiddlewareSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	tokenService    services.TokenServiceInterface
	mockAuthService *service_mocks.MockAuthServiceInterface
	e               *echo.Echo
	user            *models.User
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.tokenService = s.createTokenService(24 * time.Hour)
	s.mockAuthService = service_mocks.NewMockAuthServiceInterface(s.ctrl)
	s.e = echo.New()
	s.user = &models.User{
		ID:       uuid.New(),
		Username: "marina",
		Email:    "marina@example.com",
	}
}

func (s *AuthMiddlewareSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthMiddlewareSuite) createTokenService(duration time.Duration) services.TokenServiceInterface {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	return services.NewTokenService(&config.JWTConfig{
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "test-issuer",
		AccessTokenDuration: duration,
	})
}

func (s *AuthMiddlewareSuite) serve(authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	err := RequireAuth(s.tokenService, s.mockAuthService)(next)(c)
	s.NoError(err)
	return rec
}

func (s *AuthMiddlewareSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp apperrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func ok(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *AuthMiddlewareSuite) TestRequireAuth_ValidBearerToken() {
	token, _, err := s.tokenService.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	rec := s.serve("Bearer "+token, func(c echo.Context) error {
		s.Equal(s.user.ID, c.Get("user_id"))
		s.Equal("marina", c.Get("username"))
		s.Equal("bearer", c.Get("auth_scheme"))
		return ok(c)
	})

	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareSuite) TestRequireAuth_MissingAuthorizationHeader() {
	rec := s.serve("", ok)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apperrors.AuthMissingToken), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_InvalidTokenFormat() {
	rec := s.serve("Token abc", ok)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apperrors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_MalformedJWT() {
	rec := s.serve("Bearer not.a.jwt", ok)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apperrors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_ExpiredToken() {
	s.tokenService = s.createTokenService(-time.Hour)
	token, _, err := s.tokenService.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	rec := s.serve("Bearer "+token, ok)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apperrors.AuthExpiredToken), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_TokenSignedWithDifferentKey() {
	token, _, err := s.createTokenService(time.Hour).GenerateAccessToken(s.user)
	s.Require().NoError(err)

	rec := s.serve("Bearer "+token, ok)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apperrors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) basicHeader(username, password string) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth(username, password)
	return req.Header.Get("Authorization")
}

func (s *AuthMiddlewareSuite) TestRequireAuth_ValidBasicCredentials() {
	s.mockAuthService.EXPECT().
		Authenticate("marina", "s3nha-forte", gomock.Any(), gomock.Any()).
		Return(s.user, nil)

	rec := s.serve(s.basicHeader("marina", "s3nha-forte"), func(c echo.Context) error {
		s.Equal(s.user.ID, c.Get("user_id"))
		s.Equal("basic", c.Get("auth_scheme"))
		return ok(c)
	})

	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareSuite) TestRequireAuth_BasicInvalidCredentials() {
	s.mockAuthService.EXPECT().
		Authenticate("marina", "wrong", gomock.Any(), gomock.Any()).
		Return(nil, services.ErrInvalidCredentials)

	rec := s.serve(s.basicHeader("marina", "wrong"), ok)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apperrors.AuthInvalidCredentials), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_BasicLockedAccount() {
	s.mockAuthService.EXPECT().
		Authenticate("marina", "whatever", gomock.Any(), gomock.Any()).
		Return(nil, services.ErrAccountLocked)

	rec := s.serve(s.basicHeader("marina", "whatever"), ok)

	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(string(apperrors.AuthAccountLocked), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_BasicRepositoryFailure() {
	s.mockAuthService.EXPECT().
		Authenticate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	rec := s.serve(s.basicHeader("marina", "whatever"), ok)

	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *AuthMiddlewareSuite) TestRequireAuth_BasicMalformed() {
	rec := s.serve("Basic !!!not-base64", ok)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(apperrors.AuthInvalidTokenFormat), s.errorCode(rec))
}
