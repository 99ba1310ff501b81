package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/logger"
	"github.com/morgancollado/mocingbird-task-manager/internal/repos"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

// UserPatch is the allow-listed partial update for a user account.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UserService owns account reads and self-service mutation. Mutating someone
// else's account reports NotFound, same policy as tasks.
type UserService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	Update(ctx context.Context, actorID, userID uuid.UUID, patch UserPatch) (*types.User, error)
	Delete(ctx context.Context, actorID, userID uuid.UUID) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	taskRepo repos.TaskRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, taskRepo repos.TaskRepo) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

func (us *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}
	return users[0], nil
}

func (us *userService) Update(ctx context.Context, actorID, userID uuid.UUID, patch UserPatch) (*types.User, error) {
	if actorID != userID {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}

	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("fetch user: %w", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
		}
		user := users[0]

		if patch.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*patch.Email))
			if email == "" {
				return apperr.Validation("email can't be blank")
			}
			if email != user.Email {
				exists, exErr := us.userRepo.EmailExists(ctx, tx, email)
				if exErr != nil {
					return fmt.Errorf("check email uniqueness: %w", exErr)
				}
				if exists {
					return apperr.Validation("email has already been taken")
				}
				user.Email = email
			}
		}
		if patch.FirstName != nil {
			if strings.TrimSpace(*patch.FirstName) == "" {
				return apperr.Validation("first name can't be blank")
			}
			user.FirstName = strings.TrimSpace(*patch.FirstName)
		}
		if patch.LastName != nil {
			if strings.TrimSpace(*patch.LastName) == "" {
				return apperr.Validation("last name can't be blank")
			}
			user.LastName = strings.TrimSpace(*patch.LastName)
		}

		if err := us.userRepo.Update(ctx, tx, user); err != nil {
			return fmt.Errorf("persist user update: %w", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (us *userService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID != userID {
		return fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}

	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the account's tasks go with it
		if err := us.taskRepo.FullDeleteByOwner(ctx, tx, userID); err != nil {
			return fmt.Errorf("delete user tasks: %w", err)
		}
		affected, err := us.userRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
		}
		us.log.Info("User deleted", "user_id", userID)
		return nil
	})
}
