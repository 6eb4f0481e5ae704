package refresh

import "time"

// StoredRefreshToken is the persisted form of an opaque refresh token.
type StoredRefreshToken struct {
	Token  string
	UserID int64
	Iat    time.Time
}

type Repo interface {
	Upsert(token *StoredRefreshToken) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID int64) (*StoredRefreshToken, error)
	Delete(token string) error
}
