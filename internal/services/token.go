package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
)

// Claim is the verified payload of an access token.
type Claim struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies self-contained HS256 tokens. There is no
// server-side token state; a token is valid until its embedded expiry.
type TokenService interface {
	Issue(userID uuid.UUID, ttl time.Duration) (string, error)
	IssueDefault(userID uuid.UUID) (string, error)
	Verify(tokenString string) (*Claim, error)
	DefaultTTL() time.Duration
}

type tokenService struct {
	log        *logger.Logger
	secretKey  []byte
	defaultTTL time.Duration
}

func NewTokenService(baseLog *logger.Logger, secretKey string, defaultTTL time.Duration) TokenService {
	serviceLog := baseLog.With("service", "TokenService")
	return &tokenService{
		log:        serviceLog,
		secretKey:  []byte(secretKey),
		defaultTTL: defaultTTL,
	}
}

func (ts *tokenService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (ts *tokenService) IssueDefault(userID uuid.UUID) (string, error) {
	return ts.Issue(userID, ts.defaultTTL)
}

func (ts *tokenService) Verify(tokenString string) (*Claim, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return ts.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, apperr.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", apperr.ErrInvalidToken)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", apperr.ErrInvalidToken)
	}
	claim := &Claim{
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		claim.IssuedAt = claims.IssuedAt.Time
	}
	return claim, nil
}

func (ts *tokenService) DefaultTTL() time.Duration {
	return ts.defaultTTL
}
