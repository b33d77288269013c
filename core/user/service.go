package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = core.NewNotFoundError("user not found")

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByChatID(ctx context.Context, chatID string) (User, error)
		UpdateUserRole(ctx context.Context, id int, role string) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreateByChatID resolves a chat identity to its user, creating the
// user with the student role on first contact. Safe to call repeatedly;
// a concurrent first contact loses the insert race and falls back to the
// winner's row.
func (svc *Service) GetOrCreateByChatID(ctx context.Context, nu NewUser) (User, error) {
	usr, err := svc.repo.GetUserByChatID(ctx, nu.ChatID)
	if err == nil {
		return usr, nil
	}
	if !core.IsNotFound(err) {
		return User{}, errors.Wrap(err, "finding user by chat ID")
	}

	usr, err = svc.repo.CreateUser(ctx, User{
		ChatID:    nu.ChatID,
		Username:  nu.Username,
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Role:      RoleStudent,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if core.IsDuplicateKey(err) {
			return svc.repo.GetUserByChatID(ctx, nu.ChatID)
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByChatID(ctx context.Context, chatID string) (User, error) {
	return svc.repo.GetUserByChatID(ctx, core.CleanString(chatID))
}

// SetRole sets the user's role; promotions and demotions alike.
func (svc *Service) SetRole(ctx context.Context, id int, ur UpdateRole) (User, error) {
	return svc.repo.UpdateUserRole(ctx, id, ur.Role)
}
