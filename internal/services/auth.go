package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/repos"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

const minPasswordLength = 6

type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// AuthService owns signup and credential verification. Tokens are stateless:
// login issues one, logout has no server-side effect.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *types.User, error)
	Login(ctx context.Context, email, password string) (string, *types.User, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	tokens   TokenService
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, tokens TokenService) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (string, *types.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	var messages []string
	if input.Email == "" {
		messages = append(messages, "email can't be blank")
	}
	if input.FirstName == "" {
		messages = append(messages, "first name can't be blank")
	}
	if input.LastName == "" {
		messages = append(messages, "last name can't be blank")
	}
	if len(input.Password) < minPasswordLength {
		messages = append(messages, fmt.Sprintf("password is too short (minimum is %d characters)", minPasswordLength))
	}
	if input.Email != "" {
		exists, err := as.userRepo.EmailExists(ctx, nil, input.Email)
		if err != nil {
			return "", nil, fmt.Errorf("check email uniqueness: %w", err)
		}
		if exists {
			messages = append(messages, "email has already been taken")
		}
	}
	if len(messages) > 0 {
		return "", nil, apperr.Validation(messages...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := as.userRepo.Create(ctx, tx, []*types.User{user}); cErr != nil {
			return fmt.Errorf("create user: %w", cErr)
		}
		return nil
	}); err != nil {
		return "", nil, err
	}

	token, err := as.tokens.IssueDefault(user.ID)
	if err != nil {
		return "", nil, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return token, user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", nil, fmt.Errorf("fetch user by email: %w", err)
	}
	// unknown email and wrong password answer identically
	if len(users) == 0 {
		return "", nil, fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
	}

	token, err := as.tokens.IssueDefault(user.ID)
	if err != nil {
		return "", nil, err
	}
	as.log.Debug("User logged in", "user_id", user.ID)
	return token, user, nil
}
