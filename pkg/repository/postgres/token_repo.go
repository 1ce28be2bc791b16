package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkim-dev/usersvc/pkg/security/token"
)

// TokenRepository implements token.Repository backed by PostgreSQL (pgx).
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) (*TokenRepository, error) {
	repo := &TokenRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *TokenRepository) ensureSchema(ctx context.Context) error {
	// The cascade is a backstop: account deletion revokes explicitly first.
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS session_tokens (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			token_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS session_tokens_user_id_idx
			ON session_tokens (user_id);
	`)
	return err
}

func (r *TokenRepository) Create(ctx context.Context, binding token.Binding) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_tokens (id, user_id, label, token_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, binding.ID, binding.UserID, binding.Label, binding.TokenHash, binding.CreatedAt)
	return err
}

func (r *TokenRepository) GetByID(ctx context.Context, id uuid.UUID) (token.Binding, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, label, token_hash, created_at
		FROM session_tokens WHERE id = $1
	`, id)

	var binding token.Binding
	err := row.Scan(&binding.ID, &binding.UserID, &binding.Label,
		&binding.TokenHash, &binding.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return token.Binding{}, token.ErrUnauthenticated
		}
		return token.Binding{}, err
	}
	return binding, nil
}

func (r *TokenRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM session_tokens WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM session_tokens WHERE user_id = $1
	`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
