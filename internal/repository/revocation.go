package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/mavenapp/admin-gateway/internal/model"
)

// RevokedSessionRepository records token IDs of sessions invalidated
// by logout. Rows are kept until the underlying token would have
// expired anyway, then swept by the cleanup job.
type RevokedSessionRepository interface {
	FindByTokenID(ctx context.Context, tokenID string) (*model.RevokedSession, error)
	Create(ctx context.Context, params model.CreateRevokedSessionParams) (*model.RevokedSession, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type revokedSessionRepo struct {
	db *sqlx.DB
}

func NewRevokedSessionRepository(db *sqlx.DB) RevokedSessionRepository {
	return &revokedSessionRepo{db: db}
}

func (r *revokedSessionRepo) FindByTokenID(ctx context.Context, tokenID string) (*model.RevokedSession, error) {
	var revoked model.RevokedSession
	err := r.db.GetContext(ctx, &revoked, `
		SELECT * FROM revoked_sessions
		WHERE token_id = $1
	`, tokenID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &revoked, nil
}

func (r *revokedSessionRepo) Create(ctx context.Context, params model.CreateRevokedSessionParams) (*model.RevokedSession, error) {
	var revoked model.RevokedSession
	err := r.db.GetContext(ctx, &revoked, `
		INSERT INTO revoked_sessions (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		RETURNING *
	`, params.TokenID, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &revoked, nil
}

func (r *revokedSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM revoked_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
