package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pos-api/dtos"
	"pos-api/models"
	"pos-api/store"
	"pos-api/utils"
)

type AuthService interface {
	Login(ctx context.Context, input dtos.LoginInput) (*dtos.AuthResponse, error)
	RegisterStaff(ctx context.Context, input dtos.RegisterStaffInput) (*models.User, error)
}

type authService struct {
	store    store.UserStore
	secret   string
	tokenTTL time.Duration
	now      Clock
}

func NewAuthService(s store.UserStore, secret string, tokenTTL time.Duration, now Clock) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{store: s, secret: secret, tokenTTL: tokenTTL, now: now}
}

// Login accepts email+password for owners and staffId+pin for staff.
func (s *authService) Login(ctx context.Context, input dtos.LoginInput) (*dtos.AuthResponse, error) {
	var (
		user   *models.User
		secret string
		err    error
	)
	switch {
	case input.Email != "":
		user, err = s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
		secret = input.Password
	case input.StaffID != "":
		user, err = s.store.FindUserByStaffID(ctx, strings.TrimSpace(input.StaffID))
		secret = input.Pin
	default:
		return nil, models.InvalidArgument("email and password, or staffId and pin, are required")
	}
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(secret)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	identity := models.Identity{ID: user.ID, Role: user.Role, Name: user.Name}
	token, err := utils.GenerateToken(s.secret, s.tokenTTL, identity, s.now())
	if err != nil {
		return nil, err
	}

	return &dtos.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    identity,
	}, nil
}

func (s *authService) RegisterStaff(ctx context.Context, input dtos.RegisterStaffInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	staffID := strings.TrimSpace(input.StaffID)
	if name == "" || staffID == "" {
		return nil, models.InvalidArgument("name and staffId are required")
	}
	if len(input.Pin) < 4 {
		return nil, models.InvalidArgument("pin must have at least 4 characters")
	}

	hash, err := HashPassword(input.Pin)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Role:      models.RoleStaff,
		StaffID:   &staffID,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, models.Conflict("staff id %s is already registered", staffID)
		}
		return nil, err
	}
	zap.L().Info("staff registered", zap.String("userId", user.ID), zap.String("staffId", staffID))
	return user, nil
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
