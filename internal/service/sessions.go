package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/altilhabela/portal/internal/auth"
)

// sessionStore guarda o estado dos refresh tokens.
type sessionStore interface {
	SaveRefresh(ctx context.Context, hash, userID string, ttl time.Duration) error
	// ConsumeRefresh devolve o dono do token e o invalida (rotação).
	ConsumeRefresh(ctx context.Context, hash string) (string, error)
	DeleteRefresh(ctx context.Context, hash string) error
}

// RedisSessions implementa sessionStore sobre Redis: a chave expira
// com o TTL do refresh token e o consumo é destrutivo.
type RedisSessions struct {
	client *redis.Client
}

// NewRedisSessions cria o guarda-sessões.
func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (s *RedisSessions) SaveRefresh(ctx context.Context, hash, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, auth.RefreshRedisKey(hash), userID, ttl).Err()
}

func (s *RedisSessions) ConsumeRefresh(ctx context.Context, hash string) (string, error) {
	key := auth.RefreshRedisKey(hash)
	userID, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", auth.ErrInvalidRefresh
		}
		return "", err
	}
	return userID, nil
}

func (s *RedisSessions) DeleteRefresh(ctx context.Context, hash string) error {
	err := s.client.Del(ctx, auth.RefreshRedisKey(hash)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
