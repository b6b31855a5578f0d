package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store/memory"
	"pos-api/utils"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*memory.Store, AuthService) {
	t.Helper()
	s := memory.New()
	hash, err := HashPassword("owner-pass")
	require.NoError(t, err)
	email := "owner@shop.example"
	require.NoError(t, s.CreateUser(context.Background(), &models.User{
		ID: uuid.NewString(), Name: "Owner", Role: models.RoleOwner, Email: &email, Password: hash,
	}))
	return s, NewAuthService(s, testSecret, time.Hour, time.Now)
}

func TestOwnerLogin(t *testing.T) {
	_, svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dtos.LoginInput{Email: " Owner@Shop.example ", Password: "owner-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, resp.User.Role)

	id, err := utils.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User, id)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)

	_, err := svc.Login(ctx, dtos.LoginInput{Email: "owner@shop.example", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dtos.LoginInput{Email: "ghost@shop.example", Password: "owner-pass"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dtos.LoginInput{})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
}

func TestRegisterStaffThenLoginWithPin(t *testing.T) {
	ctx := context.Background()
	_, svc := newAuthFixture(t)

	user, err := svc.RegisterStaff(ctx, dtos.RegisterStaffInput{Name: "Anu", StaffID: "S-01", Pin: "4321"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.NotEqual(t, "4321", user.Password)

	resp, err := svc.Login(ctx, dtos.LoginInput{StaffID: "S-01", Pin: "4321"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = svc.RegisterStaff(ctx, dtos.RegisterStaffInput{Name: "Other", StaffID: "S-01", Pin: "9999"})
	assert.Equal(t, models.KindConflict, models.KindOf(err))

	_, err = svc.RegisterStaff(ctx, dtos.RegisterStaffInput{Name: "Short", StaffID: "S-02", Pin: "12"})
	assert.Equal(t, models.KindInvalidArgument, models.KindOf(err))
}
