package magiclink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenTTL is the hard lifetime of a magic link token. Redis enforces the
// expiry itself, callers never check timestamps.
const TokenTTL = 15 * time.Minute

const tokenKeyPrefix = "magic-link-token||"

// ErrTokenNotFound covers both tokens that were never stored and tokens
// whose TTL has elapsed.
var ErrTokenNotFound = errors.New("magic link token not found")

// LinkData is the payload stored per token.
type LinkData struct {
	AppID string `json:"appId"`
}

// Store keeps magic link tokens in redis with an absolute TTL.
type Store struct {
	redisClient *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redisClient: redisClient}
}

func (s *Store) Put(ctx context.Context, token, appID string) error {
	data, err := json.Marshal(LinkData{AppID: appID})
	if err != nil {
		return fmt.Errorf("marshal link data: %w", err)
	}

	cmdSet := s.redisClient.Set(ctx, tokenKeyPrefix+token, data, TokenTTL)
	if err := cmdSet.Err(); err != nil {
		return fmt.Errorf("store link token: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, token string) (*LinkData, error) {
	cmd := s.redisClient.Get(ctx, tokenKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("get link token: %w", err)
	}

	var data LinkData
	if err := json.Unmarshal([]byte(cmd.Val()), &data); err != nil {
		return nil, fmt.Errorf("unmarshal link data: %w", err)
	}

	return &data, nil
}

// Delete removes a token, e.g. after the target application redeemed it.
// Deleting an absent or expired token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.redisClient.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete link token: %w", err)
	}
	return nil
}
