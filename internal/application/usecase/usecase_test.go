package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/application/usecase"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/infrastructure/memory"
)

func details() dto.CompanyDetailsRequest {
	return dto.CompanyDetailsRequest{
		CompanyName: "Acme Traders",
		GSTNumber:   "27abcde1234f1z5",
		Address:     "12 Market Road",
		City:        "Pune",
		State:       "MH",
		Pincode:     "411001",
	}
}

func TestCompanyUseCase_Onboarding(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCompanyUseCase(memory.NewCompanyStore())

	ok, err := uc.IsOnboarded(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	st, err := uc.Status(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, st.HasCompanyDetails)

	_, err = uc.Get(ctx, "t1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	bad := details()
	bad.City = "  "
	_, err = uc.CompleteOnboarding(ctx, "t1", bad)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "city")

	out, err := uc.CompleteOnboarding(ctx, "t1", details())
	require.NoError(t, err)
	assert.True(t, out.OnboardingComplete)
	assert.Equal(t, "27ABCDE1234F1Z5", out.GSTNumber)
	require.NotNil(t, out.OnboardingCompletedAt)

	ok, err = uc.IsOnboarded(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompanyUseCase_UpdateKeepsOnboardingFlags(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCompanyUseCase(memory.NewCompanyStore())

	first, err := uc.CompleteOnboarding(ctx, "t1", details())
	require.NoError(t, err)

	in := details()
	in.Phone = "9999999999"
	out, err := uc.UpdateDetails(ctx, "t1", in)
	require.NoError(t, err)
	assert.True(t, out.OnboardingComplete)
	assert.Equal(t, first.OnboardingCompletedAt, out.OnboardingCompletedAt)
	assert.Equal(t, "9999999999", out.Phone)

	// updating without onboarding does not complete it
	out, err = uc.UpdateDetails(ctx, "t2", details())
	require.NoError(t, err)
	assert.False(t, out.OnboardingComplete)
}

func seedUser(t *testing.T, users *memory.UserStore, id, username, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &entity.User{
		ID: id, Username: username, Email: email, PasswordHash: string(hash),
		Status: entity.UserStatusActive, CreatedAt: time.Now(),
	}))
}

func TestUserUseCase_Profile(t *testing.T) {
	ctx := context.Background()
	users, companies := memory.NewUserStore(), memory.NewCompanyStore()
	seedUser(t, users, "u1", "ravi", "r@example.com", "oldpassword")
	seedUser(t, users, "u2", "asha", "a@example.com", "oldpassword")
	uc := usecase.NewUserUseCase(users, companies)

	data, err := uc.ProfileData(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ravi", data.User.Username)
	assert.Nil(t, data.Company)

	_, err = uc.UpdateProfile(ctx, "u1", dto.UpdateUserRequest{Email: "a@example.com"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))

	out, err := uc.UpdateProfile(ctx, "u1", dto.UpdateUserRequest{Email: "new@example.com", FirstName: "Ravi", LastName: "Kumar"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", out.FullName)
	assert.Equal(t, "new@example.com", out.Email)

	_, err = uc.ProfileData(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserStore()
	seedUser(t, users, "u1", "ravi", "", "oldpassword")
	uc := usecase.NewUserUseCase(users, memory.NewCompanyStore())

	err := uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword", ConfirmPassword: "different"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpassword", ConfirmPassword: "newpassword"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	require.NoError(t, uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword", ConfirmPassword: "newpassword"}))
	u, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpassword")))
}
