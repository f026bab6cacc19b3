// Package identity implements user registration, OTP verification, login,
// and role management.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when an OTP or refresh session is absent or has
// expired out of Redis.
var ErrNotFound = errors.New("not found or expired")

// PendingRegistration is the registration payload parked in Redis until the
// emailed one-time code is verified. The user row is only created after
// verification succeeds.
type PendingRegistration struct {
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Code         string    `json:"code"`
	CreatedAt    time.Time `json:"created_at"`
}

// RefreshSession holds the data stored for each refresh token
type RefreshSession struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisStore keeps OTP registrations and refresh sessions in Redis with TTLs.
type RedisStore struct {
	client        *redis.Client
	otpPrefix     string
	refreshPrefix string
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:        client,
		otpPrefix:     "otp:",
		refreshPrefix: "refresh:",
	}
}

// SavePendingRegistration parks a registration under the user's email for
// the given TTL. A repeated register call overwrites the previous code.
func (s *RedisStore) SavePendingRegistration(ctx context.Context, reg PendingRegistration, ttl time.Duration) error {
	jsonData, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}
	if err := s.client.Set(ctx, s.otpPrefix+reg.Email, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("save pending registration: %w", err)
	}
	return nil
}

func (s *RedisStore) LookupPendingRegistration(ctx context.Context, email string) (PendingRegistration, error) {
	jsonData, err := s.client.Get(ctx, s.otpPrefix+email).Result()
	if err == redis.Nil {
		return PendingRegistration{}, ErrNotFound
	}
	if err != nil {
		return PendingRegistration{}, fmt.Errorf("lookup pending registration: %w", err)
	}

	var reg PendingRegistration
	if err := json.Unmarshal([]byte(jsonData), &reg); err != nil {
		return PendingRegistration{}, fmt.Errorf("unmarshal pending registration: %w", err)
	}
	return reg, nil
}

// DeletePendingRegistration removes the parked registration once verified.
func (s *RedisStore) DeletePendingRegistration(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.otpPrefix+email).Err(); err != nil {
		return fmt.Errorf("delete pending registration: %w", err)
	}
	return nil
}

// SaveRefreshSession stores a refresh session keyed by token hash with
// expiration.
func (s *RedisStore) SaveRefreshSession(ctx context.Context, tokenHash string, session RefreshSession, expiresAt time.Time) error {
	session.CreatedAt = time.Now()

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal refresh session: %w", err)
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	if err := s.client.Set(ctx, s.refreshPrefix+tokenHash, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *RedisStore) LookupRefreshSession(ctx context.Context, tokenHash string) (RefreshSession, error) {
	jsonData, err := s.client.Get(ctx, s.refreshPrefix+tokenHash).Result()
	if err == redis.Nil {
		return RefreshSession{}, ErrNotFound
	}
	if err != nil {
		return RefreshSession{}, fmt.Errorf("lookup refresh session: %w", err)
	}

	var session RefreshSession
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return RefreshSession{}, fmt.Errorf("unmarshal refresh session: %w", err)
	}
	if session.Role == "" {
		session.Role = "viewer"
	}
	return session, nil
}

// RevokeRefreshSession deletes a refresh session
func (s *RedisStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, s.refreshPrefix+tokenHash).Err(); err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
