package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/svn-hms/complaint-service/internal/auth"
	"github.com/svn-hms/complaint-service/internal/config"
	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// TokenPair bundles the cookie session tokens issued at login.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService coordinates login, refresh and account management.
type AuthService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the shared token manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates a user and issues the access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	access, accessExp, err := s.tokenMgr.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	refresh, refreshExp, err := s.tokenMgr.GenerateRefreshToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh validates a refresh token and issues a fresh access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, string, time.Time, error) {
	if refreshToken == "" {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("no valid refresh token found in cookie")
	}
	claims, err := s.tokenMgr.ParseToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid refresh token")
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("user not found")
		}
		return nil, "", time.Time{}, err
	}
	access, exp, err := s.tokenMgr.GenerateAccessToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, access, exp, nil
}

// CreateUserInput describes an admin-created account.
type CreateUserInput struct {
	Username       string
	Email          string
	FirstName      string
	LastName       string
	Password       string
	Role           string
	DepartmentCode *string
}

// CreateUser creates an account with role-derived privilege flags.
func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(input.Username) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("username, email and password are required", nil)
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	if input.DepartmentCode != nil {
		if _, err := s.departments.GetByCode(ctx, *input.DepartmentCode); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": *input.DepartmentCode})
			}
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PasswordHash:   hash,
		Role:           role,
		DepartmentCode: input.DepartmentCode,
		IsStaff:        role.IsStaffRole(),
		IsSuperuser:    role.IsSuperuser(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewValidationError("username or email already taken", nil)
		}
		return nil, err
	}
	return user, nil
}

// ListDepartmentStaff returns staff accounts of the named department.
func (s *AuthService) ListDepartmentStaff(ctx context.Context, departmentName string) ([]domain.User, error) {
	return s.users.ListStaffByDepartmentName(ctx, departmentName)
}

// DepartmentNameFor resolves the display name of a user's department, nil
// when the account has none.
func (s *AuthService) DepartmentNameFor(ctx context.Context, user *domain.User) (*string, error) {
	if user.DepartmentCode == nil {
		return nil, nil
	}
	dept, err := s.departments.GetByCode(ctx, *user.DepartmentCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &dept.Name, nil
}
