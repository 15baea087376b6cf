package service

import (
	"context"
	"errors"
	"testing"

	"github.com/homeclean-next/internal/config"
)

func newTestUserAuthService(env *serviceTestEnv) *UserAuthService {
	cfg := &config.Config{
		UserJWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 2, RememberMeExpireHours: 48},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true},
		},
	}
	return NewUserAuthService(cfg, env.users)
}

func TestUserAuthServiceRegisterAndLogin(t *testing.T) {
	env := newServiceTestEnv(t, "auth_register_login")
	auth := newTestUserAuthService(env)

	registered, err := auth.Register(RegisterInput{Email: " New.User@Example.com ", Password: "secret123", Locale: "zh-CN"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if registered.User.Email != "new.user@example.com" {
		t.Fatalf("expected normalized email, got %s", registered.User.Email)
	}
	if registered.User.DisplayName != "new.user" {
		t.Fatalf("expected display name from email, got %s", registered.User.DisplayName)
	}
	if registered.Token == "" {
		t.Fatalf("register should return token")
	}

	claims, err := auth.ParseUserJWT(registered.Token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != registered.User.ID {
		t.Fatalf("claims user id mismatch: %d vs %d", claims.UserID, registered.User.ID)
	}

	if _, err := auth.Register(RegisterInput{Email: "new.user@example.com", Password: "secret123"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	result, err := auth.Login("NEW.USER@example.com", "secret123", true)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.ExpiresAt.Sub(result.User.LastLoginAt.UTC()).Hours() < 47 {
		t.Fatalf("remember me should extend token expiry, got %v", result.ExpiresAt)
	}
	if _, err := auth.Login("new.user@example.com", "wrong-pass1", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login("ghost@example.com", "secret123", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserAuthServiceRegisterValidation(t *testing.T) {
	env := newServiceTestEnv(t, "auth_register_validation")
	auth := newTestUserAuthService(env)

	if _, err := auth.Register(RegisterInput{Email: "not-an-email", Password: "secret123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	_, err := auth.Register(RegisterInput{Email: "short@example.com", Password: "abc"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	var policyErr PasswordPolicyError
	if !errors.As(err, &policyErr) || policyErr.Key() != "error.password_min_length" {
		t.Fatalf("expected min length policy error, got %v", err)
	}
	if _, err := auth.Register(RegisterInput{Email: "nonum@example.com", Password: "abcdefgh"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for missing number, got %v", err)
	}
}

func TestUserAuthServiceRejectsDisabledAndBadTokens(t *testing.T) {
	env := newServiceTestEnv(t, "auth_disabled")
	auth := newTestUserAuthService(env)

	registered, err := auth.Register(RegisterInput{Email: "off@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := env.db.Model(registered.User).Update("status", "disabled").Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, err := auth.Login("off@example.com", "secret123", false); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}

	if _, err := auth.ParseUserJWT("garbage.token.value"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	state, err := auth.ResolveAuthState(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatalf("resolve auth state failed: %v", err)
	}
	if state.Status != "disabled" {
		t.Fatalf("expected disabled state from database, got %s", state.Status)
	}
	if _, err := auth.ResolveAuthState(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
