// Package store はユーザーとタスクの永続化レイヤーを提供します。
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound は対象のレコードが存在しない場合に返されます。
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateUsername はユーザー名の一意制約に違反した場合に返されます。
	ErrDuplicateUsername = errors.New("store: username already exists")
)

// User はアカウント1件を表します。パスワードは必ずハッシュで保持します。
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// Task はタスク1件を表します。日付と時刻は正規化済みのISO文字列で保持し、
// 未指定の場合は nil になります。所有者は常に1人で、移譲されることはありません。
type Task struct {
	ID          int64
	Description string
	DueDate     *string
	DueTime     *string
	Completed   bool
	UserID      int64
}

// UserStore はユーザーの永続化操作を提供します。
type UserStore interface {
	// CreateUser はユーザーを作成します。ユーザー名が重複する場合は
	// ErrDuplicateUsername を返します。
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	// UserByUsername はユーザー名でユーザーを検索します。
	// 存在しない場合は ErrNotFound を返します。
	UserByUsername(ctx context.Context, username string) (*User, error)
}

// TaskStore はタスクの永続化操作を提供します。
type TaskStore interface {
	// CreateTask はタスクを作成し、採番されたIDを task.ID に設定します。
	CreateTask(ctx context.Context, task *Task) error
	// TaskByID はIDでタスクを取得します。存在しない場合は ErrNotFound を返します。
	TaskByID(ctx context.Context, id int64) (*Task, error)
	// TasksByUser は指定ユーザーが所有するタスクをID順で返します。
	TasksByUser(ctx context.Context, userID int64) ([]Task, error)
	// UpdateTask は説明・日付・時刻を上書きします。completed は変更しません。
	UpdateTask(ctx context.Context, task *Task) error
	// SetCompleted は完了フラグを設定します。
	SetCompleted(ctx context.Context, id int64, completed bool) error
	// DeleteTask はタスクを削除します。
	DeleteTask(ctx context.Context, id int64) error
}
