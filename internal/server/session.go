package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
)

// currUserKey is the single session key holding the authenticated user's ID.
const currUserKey = "curr_user"

const sessionTTL = 7 * 24 * time.Hour

// redisStorage adapts a go-redis client to fiber's session Storage
// interface so sessions survive restarts and are shared across replicas.
type redisStorage struct {
	rdb *redis.Client
}

func (s *redisStorage) Get(key string) ([]byte, error) {
	data, err := s.rdb.Get(context.Background(), "session:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

func (s *redisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.rdb.Set(context.Background(), "session:"+key, val, exp).Err()
}

func (s *redisStorage) Delete(key string) error {
	return s.rdb.Del(context.Background(), "session:"+key).Err()
}

func (s *redisStorage) Reset() error {
	ctx := context.Background()
	iter := s.rdb.Scan(ctx, 0, "session:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *redisStorage) Close() error {
	return nil
}

// newSessionStore builds the cookie session store. With no Redis client
// sessions fall back to fiber's in-memory storage.
func newSessionStore(rdb *redis.Client) *session.Store {
	cfg := session.Config{
		Expiration:     sessionTTL,
		KeyLookup:      "cookie:warbler_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if rdb != nil {
		cfg.Storage = &redisStorage{rdb: rdb}
	}
	return session.New(cfg)
}

// sessionUserID reads the authenticated user's ID from the session cookie.
// A missing or malformed value means anonymous.
func (s *Server) sessionUserID(c *fiber.Ctx) (uint, bool) {
	if s.sessions == nil {
		return 0, false
	}
	sess, err := s.sessions.Get(c)
	if err != nil {
		return 0, false
	}
	raw := sess.Get(currUserKey)
	if raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case uint:
		return v, v != 0
	case int:
		if v > 0 {
			return uint(v), true
		}
	case int64:
		if v > 0 {
			return uint(v), true
		}
	case uint64:
		if v > 0 {
			return uint(v), true
		}
	case float64:
		if v > 0 {
			return uint(v), true
		}
	}
	return 0, false
}

// startSession stores the user's ID as the sole session value.
func (s *Server) startSession(c *fiber.Ctx, userID uint) error {
	if s.sessions == nil {
		return nil
	}
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(currUserKey, userID)
	return sess.Save()
}

// endSession destroys the session cookie and backing entry.
func (s *Server) endSession(c *fiber.Ctx) error {
	if s.sessions == nil {
		return nil
	}
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
