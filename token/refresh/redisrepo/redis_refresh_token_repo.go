package redisrepo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	interrors "github.com/jrsteele09/go-hms/internal/errors"
	"github.com/jrsteele09/go-hms/token/refresh"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "hms:refresh:token:"
	userKeyPrefix  = "hms:refresh:user:"
)

// RedisRefreshTokenRepo stores refresh tokens in Redis with a TTL matching
// the token lifetime, so expired tokens disappear without a cleanup job.
// Recommended when more than one server instance shares session state.
type RedisRefreshTokenRepo struct {
	client *redis.Client
	ttl    time.Duration
}

var _ refresh.Repo = (*RedisRefreshTokenRepo)(nil)

func New(client *redis.Client, ttl time.Duration) *RedisRefreshTokenRepo {
	return &RedisRefreshTokenRepo{client: client, ttl: ttl}
}

type storedToken struct {
	UserID int64     `json:"user_id"`
	Iat    time.Time `json:"iat"`
}

func (r *RedisRefreshTokenRepo) Upsert(token *refresh.StoredRefreshToken) error {
	ctx := context.Background()

	payload, err := json.Marshal(storedToken{UserID: token.UserID, Iat: token.Iat})
	if err != nil {
		return errors.Wrap(err, "[RedisRefreshTokenRepo.Upsert] marshal")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, tokenKeyPrefix+token.Token, payload, r.ttl)
	pipe.Set(ctx, userKeyPrefix+strconv.FormatInt(token.UserID, 10), token.Token, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "[RedisRefreshTokenRepo.Upsert] pipeline exec")
	}
	return nil
}

func (r *RedisRefreshTokenRepo) Get(token string) (*refresh.StoredRefreshToken, error) {
	ctx := context.Background()

	raw, err := r.client.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, interrors.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RedisRefreshTokenRepo.Get] redis get")
	}

	var stored storedToken
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, errors.Wrap(err, "[RedisRefreshTokenRepo.Get] unmarshal")
	}
	return &refresh.StoredRefreshToken{Token: token, UserID: stored.UserID, Iat: stored.Iat}, nil
}

func (r *RedisRefreshTokenRepo) GetByUserID(userID int64) (*refresh.StoredRefreshToken, error) {
	ctx := context.Background()

	token, err := r.client.Get(ctx, userKeyPrefix+strconv.FormatInt(userID, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, interrors.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RedisRefreshTokenRepo.GetByUserID] redis get")
	}
	return r.Get(token)
}

func (r *RedisRefreshTokenRepo) Delete(token string) error {
	ctx := context.Background()

	stored, err := r.Get(token)
	if err != nil {
		// Unknown tokens delete as a no-op
		if errors.Is(err, interrors.ErrInvalidRefreshToken) {
			return nil
		}
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, tokenKeyPrefix+token)
	pipe.Del(ctx, userKeyPrefix+strconv.FormatInt(stored.UserID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "[RedisRefreshTokenRepo.Delete] pipeline exec")
	}
	return nil
}
