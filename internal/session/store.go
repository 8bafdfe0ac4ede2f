// Package session はサーバー側セッションの保存と、セッショントークンを運ぶ
// クッキーの取り扱いを提供します。
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"

	// CookieName はセッショントークンを保持するクッキー名です。
	CookieName = "todo_session"
)

// Session はトークンと認証済みユーザーIDの対応1件を表します。
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store はセッションを Redis に保存します。
// クライアントにはトークンのみを渡し、ユーザーIDはサーバー側に保持します。
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore は Store を作成します。
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb: rdb,
		ttl: ttl,
	}
}

// TTL はセッションの有効期限を返します。クッキーの MaxAge にも利用します。
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create は新しいトークンを発行し、ユーザーIDに紐づくセッションを保存します。
func (s *Store) Create(ctx context.Context, userID int64) (*Session, error) {
	record := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, sessionKey(record.Token), payload, s.ttl).Err(); err != nil {
		return nil, err
	}
	return record, nil
}

// Get はトークンに対応するセッションを取得します。
// 存在しない（期限切れ含む）場合は nil を返します。
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	data, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var record Session
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Touch はセッションの有効期限を延長します。
// アクセスのたびに呼び出すことでスライディング方式の期限になります。
func (s *Store) Touch(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	return s.rdb.Expire(ctx, sessionKey(token), s.ttl).Err()
}

// Delete はセッションを削除します。存在しないトークンに対しても成功します。
func (s *Store) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
