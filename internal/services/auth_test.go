package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/repos"
)

func newAuthService(t *testing.T) (AuthService, TokenService) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	tokens := NewTokenService(log, "test-secret", 24*time.Hour)
	return NewAuthService(db, log, repos.NewUserRepo(db, log), tokens), tokens
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:     "new@example.com",
		FirstName: "New",
		LastName:  "User",
		Password:  "secure123",
	}
}

func TestRegister_ReturnsVerifiableToken(t *testing.T) {
	auth, tokens := newAuthService(t)
	ctx := context.Background()

	token, user, err := auth.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email: got %q", user.Email)
	}
	if user.PasswordHash == "secure123" {
		t.Fatalf("password stored in the clear")
	}

	claim, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claim.UserID != user.ID {
		t.Fatalf("token subject: want %s got %s", user.ID, claim.UserID)
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	auth, _ := newAuthService(t)
	input := validRegisterInput()
	input.Email = "  MiXeD@Example.COM "

	_, user, err := auth.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "mixed@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
}

func TestRegister_CollectsAllViolations(t *testing.T) {
	auth, _ := newAuthService(t)

	_, _, err := auth.Register(context.Background(), RegisterInput{Password: "ab"})
	vErr, ok := apperr.AsValidation(err)
	if !ok {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(vErr.Messages) != 4 {
		t.Fatalf("want 4 messages, got %v", vErr.Messages)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := auth.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, err := auth.Register(ctx, validRegisterInput())
	if _, ok := apperr.AsValidation(err); !ok {
		t.Fatalf("want ValidationError for duplicate email, got %v", err)
	}
}

func TestLogin_SuccessAndFailureIndistinguishability(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := auth.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, user, err := auth.Login(ctx, "new@example.com", "secure123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || user == nil {
		t.Fatalf("empty login result")
	}

	_, _, wrongPass := auth.Login(ctx, "new@example.com", "wrongpass")
	_, _, unknownEmail := auth.Login(ctx, "nobody@example.com", "secure123")
	if !errors.Is(wrongPass, apperr.ErrUnauthenticated) || !errors.Is(unknownEmail, apperr.ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated for both, got %v / %v", wrongPass, unknownEmail)
	}
	// identical surface for unknown email vs bad password
	if wrongPass.Error() != unknownEmail.Error() {
		t.Fatalf("login failures leak account existence: %q vs %q", wrongPass, unknownEmail)
	}
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	auth, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := auth.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := auth.Login(ctx, "NEW@EXAMPLE.COM", "secure123"); err != nil {
		t.Fatalf("Login with upper-case email: %v", err)
	}
}
