package repofake

import (
	"sync"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*refresh.StoredRefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*refresh.StoredRefreshToken),
	}
}

func (r *FakeRefreshTokenRepo) Upsert(token *refresh.StoredRefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *FakeRefreshTokenRepo) Get(token string) (*refresh.StoredRefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	stored, ok := r.tokens[token]
	if !ok {
		return nil, interrors.ErrInvalidRefreshToken
	}
	copied := *stored
	return &copied, nil
}

func (r *FakeRefreshTokenRepo) GetByUserID(userID int64) (*refresh.StoredRefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, stored := range r.tokens {
		if stored.UserID == userID {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, interrors.ErrInvalidRefreshToken
}

func (r *FakeRefreshTokenRepo) Delete(token string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.tokens, token)
	return nil
}
