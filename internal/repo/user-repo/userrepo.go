package userrepo

import (
	"context"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Repository reads filter out soft-deleted rows explicitly; Delete marks a
// row instead of removing it.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (repo *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
		SELECT id, login, password_hash, role
		FROM users
		WHERE login = $1 AND deleted_at IS NULL
	`
	var user domain.User
	err := repo.db.QueryRow(ctx, query, login).Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT id, login, password_hash, role
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	var user domain.User
	err := repo.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a live user with the given id and role is present.
func (repo *Repository) Exists(ctx context.Context, id int, role domain.UserRole) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE id = $1 AND role = $2 AND deleted_at IS NULL
		)
	`
	var exists bool
	err := repo.db.QueryRow(ctx, query, id, role).Scan(&exists)
	if err != nil {
		zap.L().Error("can't check user existence", zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (login, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := repo.db.QueryRow(ctx, query, user.Login, user.PasswordHash, user.Role).Scan(&user.ID)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) MarkDeleted(ctx context.Context, id int) error {
	query := `
		UPDATE users
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := repo.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't mark user deleted", zap.Error(err))
		return err
	}
	return nil
}
