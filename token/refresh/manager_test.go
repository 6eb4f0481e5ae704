package refresh_test

import (
	"testing"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/token/refresh"
	"github.com/jrsteele09/go-hms/token/refresh/repofake"
	"github.com/stretchr/testify/require"
)

func TestCreateAndConsume(t *testing.T) {
	manager := refresh.NewManager(repofake.NewFakeRefreshTokenRepo(), 32, time.Hour)

	tok, err := manager.Create(7)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := manager.Consume(tok)
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)

	// Rotation: a consumed token cannot be replayed
	_, err = manager.Consume(tok)
	require.ErrorIs(t, err, interrors.ErrInvalidRefreshToken)
}

func TestCreateReplacesExistingUserToken(t *testing.T) {
	repo := repofake.NewFakeRefreshTokenRepo()
	manager := refresh.NewManager(repo, 32, time.Hour)

	first, err := manager.Create(7)
	require.NoError(t, err)
	second, err := manager.Create(7)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = manager.Consume(first)
	require.ErrorIs(t, err, interrors.ErrInvalidRefreshToken)

	userID, err := manager.Consume(second)
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)
}

func TestConsumeExpiredToken(t *testing.T) {
	manager := refresh.NewManager(repofake.NewFakeRefreshTokenRepo(), 32, time.Hour)

	originalNow := refresh.NowTimeFunc
	defer func() { refresh.NowTimeFunc = originalNow }()

	issued := time.Now()
	refresh.NowTimeFunc = func() time.Time { return issued }
	tok, err := manager.Create(7)
	require.NoError(t, err)

	refresh.NowTimeFunc = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = manager.Consume(tok)
	require.ErrorIs(t, err, interrors.ErrRefreshTokenExpired)
}

func TestConsumeUnknownToken(t *testing.T) {
	manager := refresh.NewManager(repofake.NewFakeRefreshTokenRepo(), 32, time.Hour)

	_, err := manager.Consume("deadbeef")
	require.ErrorIs(t, err, interrors.ErrInvalidRefreshToken)
}
