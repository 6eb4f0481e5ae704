package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/token/refresh"
	"github.com/pkg/errors"
)

type RefreshTokenRepo struct {
	db DB
}

var _ refresh.Repo = (*RefreshTokenRepo)(nil)

func NewRefreshTokenRepo(db DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Upsert(stored *refresh.StoredRefreshToken) error {
	// One token per user: replacing the user's row enforces rotation
	_, err := r.db.Exec(context.Background(), `
		INSERT INTO refresh_tokens (token, user_id, iat)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, iat = EXCLUDED.iat`,
		stored.Token, stored.UserID, stored.Iat)
	return errors.Wrap(err, "[RefreshTokenRepo.Upsert] exec")
}

func (r *RefreshTokenRepo) Get(tokenStr string) (*refresh.StoredRefreshToken, error) {
	var stored refresh.StoredRefreshToken
	err := r.db.QueryRow(context.Background(),
		`SELECT token, user_id, iat FROM refresh_tokens WHERE token = $1`, tokenStr).
		Scan(&stored.Token, &stored.UserID, &stored.Iat)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interrors.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RefreshTokenRepo.Get] scan")
	}
	return &stored, nil
}

func (r *RefreshTokenRepo) GetByUserID(userID int64) (*refresh.StoredRefreshToken, error) {
	var stored refresh.StoredRefreshToken
	err := r.db.QueryRow(context.Background(),
		`SELECT token, user_id, iat FROM refresh_tokens WHERE user_id = $1`, userID).
		Scan(&stored.Token, &stored.UserID, &stored.Iat)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, interrors.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RefreshTokenRepo.GetByUserID] scan")
	}
	return &stored, nil
}

func (r *RefreshTokenRepo) Delete(tokenStr string) error {
	_, err := r.db.Exec(context.Background(),
		`DELETE FROM refresh_tokens WHERE token = $1`, tokenStr)
	return errors.Wrap(err, "[RefreshTokenRepo.Delete] exec")
}
