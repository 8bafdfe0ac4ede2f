package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema はアプリケーションが使用するテーブル定義です。
// 起動時に EnsureSchema から適用されます。
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id          BIGSERIAL PRIMARY KEY,
    description TEXT NOT NULL,
    due_date    TEXT,
    due_time    TEXT,
    completed   BOOLEAN NOT NULL DEFAULT FALSE,
    user_id     BIGINT NOT NULL REFERENCES users (id)
);
`

// PostgreSQL の一意制約違反エラーコード
const uniqueViolationCode = "23505"

// Postgres は pgx の接続プールを使った UserStore / TaskStore の実装です。
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres は Postgres ストアを作成します。
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema はテーブルが存在しない場合に作成します。
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}

// CreateUser はユーザーを作成します。
func (p *Postgres) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	user := &User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		username, passwordHash,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return user, nil
}

// UserByUsername はユーザー名でユーザーを検索します。
func (p *Postgres) UserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := p.pool.QueryRow(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateTask はタスクを作成します。
func (p *Postgres) CreateTask(ctx context.Context, task *Task) error {
	return p.pool.QueryRow(ctx,
		`INSERT INTO tasks (description, due_date, due_time, completed, user_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		task.Description, task.DueDate, task.DueTime, task.Completed, task.UserID,
	).Scan(&task.ID)
}

// TaskByID はIDでタスクを取得します。
func (p *Postgres) TaskByID(ctx context.Context, id int64) (*Task, error) {
	var task Task
	err := p.pool.QueryRow(ctx,
		`SELECT id, description, due_date, due_time, completed, user_id
		 FROM tasks WHERE id = $1`,
		id,
	).Scan(&task.ID, &task.Description, &task.DueDate, &task.DueTime, &task.Completed, &task.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// TasksByUser は指定ユーザーのタスクをID順で返します。
func (p *Postgres) TasksByUser(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, description, due_date, due_time, completed, user_id
		 FROM tasks WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var task Task
		if err := rows.Scan(&task.ID, &task.Description, &task.DueDate, &task.DueTime,
			&task.Completed, &task.UserID); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTask は説明・日付・時刻を上書きします。
func (p *Postgres) UpdateTask(ctx context.Context, task *Task) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE tasks SET description = $1, due_date = $2, due_time = $3 WHERE id = $4`,
		task.Description, task.DueDate, task.DueTime, task.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCompleted は完了フラグを設定します。
func (p *Postgres) SetCompleted(ctx context.Context, id int64, completed bool) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE tasks SET completed = $1 WHERE id = $2`,
		completed, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask はタスクを削除します。
func (p *Postgres) DeleteTask(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
