package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"contas/internal/dto"
	"contas/internal/models"
	"contas/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrUserAlreadyExists  = errors.New("user with this username already exists")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration and credential checks
type AuthService struct {
	userRepo        repositories.UserRepositoryInterface
	auditService    AuditServiceInterface
	passwordService PasswordServiceInterface
	tokenService    TokenServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	auditService AuditServiceInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:        userRepo,
		auditService:    auditService,
		passwordService: passwordService,
		tokenService:    tokenService,
		metrics:         metrics,
		logger:          logger,
	}
}

// Register creates a new user
func (s *AuthService) Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
	username := strings.TrimSpace(req.Username)

	if _, err := s.userRepo.GetByUsername(username); err == nil {
		s.auditFailedRegistration(username, ipAddress, userAgent, "username_already_exists")
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if _, err := s.userRepo.GetByEmail(req.Email); err == nil {
		s.auditFailedRegistration(username, ipAddress, userAgent, "email_already_exists")
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.auditService.Record(auditEntry(user.ID, models.AuditActionRegister, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent))
	s.recordAuthEvent("register")
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return user, nil
}

// Login checks credentials and issues an access token
func (s *AuthService) Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(req.Username, req.Password, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.auditService.Record(auditEntry(user.ID, models.AuditActionLogin, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent))
	s.recordAuthEvent("login")

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate verifies a username and password. It is used by Login and by
// HTTP Basic authentication, so failed attempts count the same either way.
func (s *AuthService) Authenticate(username, password, ipAddress, userAgent string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.auditFailedLogin(uuid.Nil, username, ipAddress, userAgent, "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked() {
		s.auditFailedLogin(user.ID, username, ipAddress, userAgent, "account_locked")
		return nil, ErrAccountLocked
	}

	if !s.passwordService.ComparePassword(password, user.PasswordHash) {
		user.IncrementFailedAttempts()
		if err := s.userRepo.UpdateLoginState(user); err != nil {
			s.logger.Error("failed to update login attempts",
				"error", err,
				"user_id", user.ID)
		}

		if user.IsLocked() {
			s.auditService.Record(auditEntry(user.ID, models.AuditActionAccountLocked, models.AuditResourceUser, user.ID.String(), ipAddress, userAgent))
			s.recordAuthEvent("account_locked")
		}

		s.auditFailedLogin(user.ID, username, ipAddress, userAgent, "invalid_password")
		return nil, ErrInvalidCredentials
	}

	user.ResetFailedAttempts()
	user.UpdateLastLogin()
	if err := s.userRepo.UpdateLoginState(user); err != nil {
		s.logger.Warn("failed to reset login attempts",
			"error", err,
			"user_id", user.ID)
	}

	return user, nil
}

// GetProfile loads the authenticated user
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) auditFailedRegistration(username, ipAddress, userAgent, reason string) {
	entry := auditEntry(uuid.Nil, models.AuditActionRegister, models.AuditResourceUser, "", ipAddress, userAgent)
	s.auditService.Record(entry.With("username", username).With("reason", reason))
}

func (s *AuthService) auditFailedLogin(userID uuid.UUID, username, ipAddress, userAgent, reason string) {
	entry := auditEntry(userID, models.AuditActionFailedLogin, models.AuditResourceUser, "", ipAddress, userAgent)
	s.auditService.Record(entry.With("username", username).With("reason", reason))
	s.recordAuthEvent("failed_login")
}

func (s *AuthService) recordAuthEvent(eventType string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter("authentication_event", map[string]string{"event_type": eventType})
	}
}
