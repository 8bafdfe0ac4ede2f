// Package auth はアカウント登録・ログイン・ログアウトとセッション検証を提供します。
package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/go-todo/internal/apperr"
	"github.com/yourusername/go-todo/internal/session"
	"github.com/yourusername/go-todo/internal/store"
)

// SessionStore はサービスが利用するセッション操作です。
type SessionStore interface {
	Create(ctx context.Context, userID int64) (*session.Session, error)
	Get(ctx context.Context, token string) (*session.Session, error)
	Touch(ctx context.Context, token string) error
	Delete(ctx context.Context, token string) error
}

// Service は認証のユースケースをまとめた構造体です。
type Service struct {
	users    store.UserStore
	sessions SessionStore
}

// NewService は認証サービスを作成します。
func NewService(users store.UserStore, sessions SessionStore) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
	}
}

// Register はアカウントを新規作成します。セッションは作成しません。
func (s *Service) Register(ctx context.Context, username, password, confirm string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.E(apperr.CodeValidation, "ユーザー名とパスワードを入力してください")
	}
	if password != confirm {
		return nil, apperr.E(apperr.CodeValidation, "パスワードが一致しません")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, apperr.E(apperr.CodeConflict, "このユーザー名は既に使われています")
		}
		return nil, err
	}
	return user, nil
}

// Login は資格情報を検証し、成功した場合にユーザーIDへ紐づくセッションを発行します。
// ユーザー名の存在を漏らさないよう、未登録とパスワード不一致は同じエラーに畳み込みます。
func (s *Service) Login(ctx context.Context, username, password string) (*session.Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, invalidCredentials()
	}

	return s.sessions.Create(ctx, user.ID)
}

// Logout はセッションを破棄します。既に無いセッションに対しても成功します。
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func invalidCredentials() *apperr.Error {
	return apperr.E(apperr.CodeInvalidCredentials, "ユーザー名またはパスワードが正しくありません")
}
