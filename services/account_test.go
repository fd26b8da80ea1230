package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-biller/models"
	"github.com/yeremiapane/restaurant-biller/testutil"
	"golang.org/x/crypto/bcrypt"
)

func TestSignUpAndAuthenticate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccountService(db).WithCost(bcrypt.MinCost)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, " Owner@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, err = svc.SignUp(ctx, "owner@example.com", "another-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := svc.Authenticate(ctx, "OWNER@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccountService(db).WithCost(bcrypt.MinCost)

	_, err := svc.SignUp(context.Background(), "not-an-email", "long-enough")
	assert.True(t, IsValidation(err))
	_, err = svc.SignUp(context.Background(), "a@example.com", "short")
	assert.True(t, IsValidation(err))

	_, err = svc.SignUp(context.Background(), "a@example.com", strings.Repeat("p", 80))
	require.Error(t, err)
	assert.True(t, IsValidation(err), err.Error())
	assert.Zero(t, testutil.Count(t, db, &models.User{}))

	_, err = svc.SignUp(context.Background(), "a@example.com", strings.Repeat("p", 72))
	assert.NoError(t, err)
}

func TestOnboard(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "owner@example.com")
	svc := NewAccountService(db)
	ctx := context.Background()

	_, err := svc.Onboard(ctx, u.ID, OnboardingInput{Name: "  "})
	assert.True(t, IsValidation(err))

	r, err := svc.Onboard(ctx, u.ID, OnboardingInput{Name: "Spice Route", Address: "12 MG Road", Contact: "080-1234"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, r.OwnerID)

	_, err = svc.Onboard(ctx, u.ID, OnboardingInput{Name: "Second"})
	assert.ErrorIs(t, err, ErrAlreadyOnboarded)

	resolved, found, err := NewTenantResolver(db).Resolve(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, r.ID, resolved.ID)
}
