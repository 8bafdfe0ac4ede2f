package store

import (
	"context"
	"sort"
	"sync"
)

// Memory は UserStore / TaskStore のインメモリ実装です。
// サービス層のテストで PostgreSQL の代わりに使用します。
type Memory struct {
	mu         sync.Mutex
	users      map[int64]*User
	tasks      map[int64]*Task
	nextUserID int64
	nextTaskID int64
}

// NewMemory は空の Memory ストアを作成します。
func NewMemory() *Memory {
	return &Memory{
		users: make(map[int64]*User),
		tasks: make(map[int64]*Task),
	}
}

// CreateUser はユーザーを作成します。
func (m *Memory) CreateUser(_ context.Context, username, passwordHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return nil, ErrDuplicateUsername
		}
	}

	m.nextUserID++
	user := &User{
		ID:           m.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	m.users[user.ID] = user

	clone := *user
	return &clone, nil
}

// UserByUsername はユーザー名でユーザーを検索します。
func (m *Memory) UserByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

// CreateTask はタスクを作成し、採番されたIDを設定します。
func (m *Memory) CreateTask(_ context.Context, task *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextTaskID++
	task.ID = m.nextTaskID
	clone := *task
	m.tasks[task.ID] = &clone
	return nil
}

// TaskByID はIDでタスクを取得します。
func (m *Memory) TaskByID(_ context.Context, id int64) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *task
	return &clone, nil
}

// TasksByUser は指定ユーザーのタスクをID順で返します。
func (m *Memory) TasksByUser(_ context.Context, userID int64) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var tasks []Task
	for _, task := range m.tasks {
		if task.UserID == userID {
			tasks = append(tasks, *task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// UpdateTask は説明・日付・時刻を上書きします。
func (m *Memory) UpdateTask(_ context.Context, task *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Description = task.Description
	existing.DueDate = task.DueDate
	existing.DueTime = task.DueTime
	return nil
}

// SetCompleted は完了フラグを設定します。
func (m *Memory) SetCompleted(_ context.Context, id int64, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return ErrNotFound
	}
	task.Completed = completed
	return nil
}

// DeleteTask はタスクを削除します。
func (m *Memory) DeleteTask(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}
