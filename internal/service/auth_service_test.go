package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svn-hms/complaint-service/internal/auth"
	"github.com/svn-hms/complaint-service/internal/config"
	"github.com/svn-hms/complaint-service/internal/domain"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 15
	cfg.Auth.RefreshTokenTTLMinutes = 1440
	cfg.Auth.BcryptCost = 4

	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	hk := "HK"
	users := newFakeUserRepo(domain.User{
		ID:             "user-admin",
		Username:       "admin",
		Email:          "admin@example.com",
		PasswordHash:   hash,
		Role:           domain.RoleMasterAdmin,
		DepartmentCode: &hk,
	})
	departments := newFakeDepartmentRepo(
		domain.Department{Code: "HK", Name: "Housekeeping", Status: domain.StatusActive},
	)

	return NewAuthService(cfg, AuthDependencies{UserRepo: users, DepartmentRepo: departments}), users
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, pair, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	for _, attempt := range [][2]string{{"admin", "wrong"}, {"nobody", "s3cret"}} {
		_, _, err := svc.Login(context.Background(), attempt[0], attempt[1])
		require.Error(t, err)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
		assert.Equal(t, "invalid credentials", domainErr.Message)
	}
}

func TestRefreshRotatesAccessToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, pair, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	user, access, exp, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.NotEmpty(t, access)
	assert.False(t, exp.IsZero())
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, pair, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	_, _, _, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "invalid refresh token", domainErr.Message)
}

func TestRefreshRejectsEmptyToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, _, err := svc.Refresh(context.Background(), "")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "no valid refresh token found in cookie", domainErr.Message)
}

func TestCreateUserDerivesPrivilegeFlags(t *testing.T) {
	svc, users := newAuthFixture(t)

	hk := "HK"
	created, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username:       "rita",
		Email:          "rita@example.com",
		Password:       "pass",
		Role:           "staff",
		DepartmentCode: &hk,
	})
	require.NoError(t, err)
	assert.True(t, created.IsStaff)
	assert.False(t, created.IsSuperuser)

	stored, err := users.GetByUsername(context.Background(), "rita")
	require.NoError(t, err)
	require.NoError(t, auth.ComparePassword(stored.PasswordHash, "pass"))
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Username: "x", Email: "", Password: "p", Role: "staff"})
	require.Error(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserInput{
		Username: "x", Email: "x@example.com", Password: "p", Role: "overlord",
	})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "invalid role", domainErr.Message)

	mt := "MT"
	_, err = svc.CreateUser(context.Background(), CreateUserInput{
		Username: "x", Email: "x@example.com", Password: "p", Role: "staff", DepartmentCode: &mt,
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "unknown department", domainErr.Message)
}

func TestDepartmentNameFor(t *testing.T) {
	svc, _ := newAuthFixture(t)

	hk := "HK"
	name, err := svc.DepartmentNameFor(context.Background(), &domain.User{DepartmentCode: &hk})
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, "Housekeeping", *name)

	name, err = svc.DepartmentNameFor(context.Background(), &domain.User{})
	require.NoError(t, err)
	assert.Nil(t, name)

	missing := "XX"
	name, err = svc.DepartmentNameFor(context.Background(), &domain.User{DepartmentCode: &missing})
	require.NoError(t, err)
	assert.Nil(t, name)
}
