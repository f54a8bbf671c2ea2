package usecase

import (
	"context"
	"testing"

	"smart-parking/internal/data/entity"
	"smart-parking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture(t *testing.T) (*memStore, AuthService) {
	t.Helper()
	store := newMemStore()
	svc := NewAuthService(store.repo(), testConfig(), zap.NewNop())
	return store, svc
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAuthFixture(t)

	user, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "budi",
		Email:    "budi@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleUser), user.Role)
	assert.True(t, user.IsActive)

	auth, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "budi@example.com",
		Password: "supersecret",
	}, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, user.ID, auth.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "budi",
		Email:    "budi@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &request.RegisterRequest{
		Username: "budi2",
		Email:    "budi@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterParkingOwnerRole(t *testing.T) {
	_, svc := newAuthFixture(t)

	user, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "siti",
		Email:    "siti@example.com",
		Password: "supersecret",
		Role:     "parking_owner",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleParkingOwner), user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "budi",
		Email:    "budi@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "budi@example.com",
		Password: "wrong-password",
	}, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLogoutRevokesSession(t *testing.T) {
	store, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "budi",
		Email:    "budi@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	auth, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "budi@example.com",
		Password: "supersecret",
	}, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), auth.Token))

	session, err := store.repo().Session.FindValidSession(context.Background(), auth.Token)
	require.NoError(t, err)
	assert.Nil(t, session)
}
