package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Purposes of one-shot tokens mailed to users
const (
	ActionEmailVerification = "email_verification"
	ActionPasswordReset     = "password_reset"
)

// ErrActionTokenNotFound is returned when a one-shot token is unknown, expired or already used
var ErrActionTokenNotFound = errors.New("action token not found")

const scanBatchSize = 100

// SessionStore keeps active JWT ids and one-shot tokens in Redis.
// A token whose key is missing is treated as revoked.
type SessionStore interface {
	StoreTokenPair(ctx context.Context, userID uuid.UUID, accessTokenID string, accessTTL time.Duration, refreshTokenID string, refreshTTL time.Duration) error
	IsAccessTokenActive(ctx context.Context, userID uuid.UUID, accessTokenID string) (bool, error)
	// ConsumeRefreshToken deletes the refresh token and reports whether it existed
	ConsumeRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenID string) (bool, error)
	RevokeTokens(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	IssueActionToken(ctx context.Context, purpose string, userID uuid.UUID, ttl time.Duration) (string, error)
	ConsumeActionToken(ctx context.Context, purpose, token string) (uuid.UUID, error)
}

type sessionStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSessionStore(redisClient *redis.Client, log *logrus.Logger) SessionStore {
	return &sessionStore{
		redisClient: redisClient,
		log:         log,
	}
}

func accessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

func refreshTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}

func actionTokenKey(purpose, token string) string {
	return fmt.Sprintf("action_token:%s:%s", purpose, token)
}

func (s *sessionStore) StoreTokenPair(ctx context.Context, userID uuid.UUID, accessTokenID string, accessTTL time.Duration, refreshTokenID string, refreshTTL time.Duration) error {
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, accessTokenKey(userID, accessTokenID), "valid", accessTTL)
	pipe.Set(ctx, refreshTokenKey(userID, refreshTokenID), "valid", refreshTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to store token pair in Redis: %+v", err)
		return fmt.Errorf("store token pair: %w", err)
	}
	return nil
}

func (s *sessionStore) IsAccessTokenActive(ctx context.Context, userID uuid.UUID, accessTokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, accessTokenKey(userID, accessTokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check access token in Redis: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *sessionStore) ConsumeRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenID string) (bool, error) {
	// DEL is atomic, so a refresh token can be rotated only once
	deleted, err := s.redisClient.Del(ctx, refreshTokenKey(userID, refreshTokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to delete refresh token: %+v", err)
		return false, err
	}
	return deleted > 0, nil
}

func (s *sessionStore) RevokeTokens(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	keys := []string{accessTokenKey(userID, accessTokenID)}
	if refreshTokenID != "" {
		keys = append(keys, refreshTokenKey(userID, refreshTokenID))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to revoke tokens: %+v", err)
		return err
	}
	return nil
}

// RevokeAllUserTokens removes every session of the user, e.g. after a password reset
func (s *sessionStore) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	patterns := []string{
		fmt.Sprintf("access_token:%s:*", userID.String()),
		fmt.Sprintf("refresh_token:%s:*", userID.String()),
	}

	for _, pattern := range patterns {
		iter := s.redisClient.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warnf("Failed to scan token keys: %+v", err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete token keys: %+v", err)
			return err
		}
	}

	return nil
}

func (s *sessionStore) IssueActionToken(ctx context.Context, purpose string, userID uuid.UUID, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.redisClient.Set(ctx, actionTokenKey(purpose, token), userID.String(), ttl).Err(); err != nil {
		s.log.Warnf("Failed to store %s token: %+v", purpose, err)
		return "", err
	}
	return token, nil
}

func (s *sessionStore) ConsumeActionToken(ctx context.Context, purpose, token string) (uuid.UUID, error) {
	value, err := s.redisClient.GetDel(ctx, actionTokenKey(purpose, token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrActionTokenNotFound
	}
	if err != nil {
		s.log.Warnf("Failed to consume %s token: %+v", purpose, err)
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrActionTokenNotFound
	}
	return userID, nil
}
