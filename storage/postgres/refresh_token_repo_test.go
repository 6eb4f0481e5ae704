package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/token/refresh"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenRepoUpsertReplacesUserRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefreshTokenRepo(mock)
	iat := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs("tok-1", int64(7), iat).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Upsert(&refresh.StoredRefreshToken{Token: "tok-1", UserID: 7, Iat: iat}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepoGetUnknownToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRefreshTokenRepo(mock)
	mock.ExpectQuery("SELECT token, user_id, iat FROM refresh_tokens WHERE token").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.Get("nope")
	require.ErrorIs(t, err, interrors.ErrInvalidRefreshToken)
	require.NoError(t, mock.ExpectationsWereMet())
}
