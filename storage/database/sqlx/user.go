package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.GetContext(ctx, &usr.ID, `
        INSERT INTO users (chat_id, username, first_name, last_name, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`,
		usr.ChatID, usr.Username, usr.FirstName, usr.LastName, usr.Role, usr.CreatedAt,
	)
	if err != nil {
		return user.User{}, trapErr(err, "inserting user", user.ErrNotFound)
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, `SELECT * FROM users WHERE id = $1`, id); err != nil {
		return user.User{}, trapErr(err, "getting user by ID", user.ErrNotFound)
	}
	return usr, nil
}

func (repo userRepository) GetUserByChatID(ctx context.Context, chatID string) (user.User, error) {
	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, `SELECT * FROM users WHERE chat_id = $1`, chatID); err != nil {
		return user.User{}, trapErr(err, "getting user by chat ID", user.ErrNotFound)
	}
	return usr, nil
}

func (repo userRepository) UpdateUserRole(ctx context.Context, id int, role string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `
        UPDATE users SET role = $1 WHERE id = $2
        RETURNING *`,
		role, id,
	)
	if err != nil {
		return user.User{}, trapErr(err, "updating user role", user.ErrNotFound)
	}
	return usr, nil
}
