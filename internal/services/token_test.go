package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
)

func newTokenService(t *testing.T, secret string) TokenService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewTokenService(log, secret, 24*time.Hour)
}

func TestTokenRoundtrip(t *testing.T) {
	ts := newTokenService(t, "secret-a")
	userID := uuid.New()

	tok, err := ts.Issue(userID, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claim, err := ts.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claim.UserID != userID {
		t.Fatalf("subject: want %s got %s", userID, claim.UserID)
	}
	if !claim.ExpiresAt.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", claim.ExpiresAt)
	}
}

func TestTokenVerify_RejectsExpired(t *testing.T) {
	ts := newTokenService(t, "secret-a")

	tok, err := ts.Issue(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Verify(tok); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenVerify_RejectsTamperedPayload(t *testing.T) {
	ts := newTokenService(t, "secret-a")

	tok, err := ts.Issue(uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("want 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	// flip one bit of the signed payload
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := ts.Verify(tampered); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenVerify_RejectsWrongSecret(t *testing.T) {
	issuer := newTokenService(t, "secret-a")
	verifier := newTokenService(t, "secret-b")

	tok, err := issuer.Issue(uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(tok); !errors.Is(err, apperr.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenVerify_RejectsGarbage(t *testing.T) {
	ts := newTokenService(t, "secret-a")
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ts.Verify(raw); !errors.Is(err, apperr.ErrInvalidToken) {
			t.Fatalf("Verify(%q): want ErrInvalidToken, got %v", raw, err)
		}
	}
}
