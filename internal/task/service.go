// Package task はタスクのCRUDと所有権チェックを提供します。
package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yourusername/go-todo/internal/apperr"
	"github.com/yourusername/go-todo/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// 所有していないタスクの存在を漏らさないため、NotFound と Forbidden の
// ユーザー向けメッセージは同一にします。コードはログとテストのために区別します。
const taskNotFoundMessage = "タスクが見つかりません"

// Service はタスクのユースケースをまとめた構造体です。
// すべての操作は認証済みユーザーIDを前提とし、タスク単位の操作は
// 必ず authorize を通して所有権を確認します。
type Service struct {
	tasks store.TaskStore
}

// NewService はタスクサービスを作成します。
func NewService(tasks store.TaskStore) *Service {
	return &Service{tasks: tasks}
}

// List は指定ユーザーが所有するタスクを登録順で返します。
func (s *Service) List(ctx context.Context, userID int64) ([]store.Task, error) {
	return s.tasks.TasksByUser(ctx, userID)
}

// Add はタスクを作成します。date / time は ISO-8601 形式の文字列で、
// 空文字列の場合は未設定として扱います。completed は false で初期化されます。
func (s *Service) Add(ctx context.Context, userID int64, description, date, timeOfDay string) (*store.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.E(apperr.CodeValidation, "タスクの内容を入力してください")
	}

	dueDate, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	dueTime, err := normalizeTime(timeOfDay)
	if err != nil {
		return nil, err
	}

	task := &store.Task{
		Description: description,
		DueDate:     dueDate,
		DueTime:     dueTime,
		Completed:   false,
		UserID:      userID,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Get は所有権を確認したうえでタスク1件を返します。編集フォームの表示に使用します。
func (s *Service) Get(ctx context.Context, userID, taskID int64) (*store.Task, error) {
	return s.authorize(ctx, userID, taskID)
}

// Edit は説明・日付・時刻を上書きします。completed は変更しません。
func (s *Service) Edit(ctx context.Context, userID, taskID int64, description, date, timeOfDay string) (*store.Task, error) {
	task, err := s.authorize(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperr.E(apperr.CodeValidation, "タスクの内容を入力してください")
	}

	dueDate, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}
	dueTime, err := normalizeTime(timeOfDay)
	if err != nil {
		return nil, err
	}

	task.Description = description
	task.DueDate = dueDate
	task.DueTime = dueTime
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// MarkComplete は完了フラグを立てます。
func (s *Service) MarkComplete(ctx context.Context, userID, taskID int64) error {
	return s.setCompleted(ctx, userID, taskID, true)
}

// UndoComplete は完了フラグを下ろします。
func (s *Service) UndoComplete(ctx context.Context, userID, taskID int64) error {
	return s.setCompleted(ctx, userID, taskID, false)
}

// Delete はタスクを完全に削除します。
func (s *Service) Delete(ctx context.Context, userID, taskID int64) error {
	task, err := s.authorize(ctx, userID, taskID)
	if err != nil {
		return err
	}
	return s.tasks.DeleteTask(ctx, task.ID)
}

func (s *Service) setCompleted(ctx context.Context, userID, taskID int64, completed bool) error {
	task, err := s.authorize(ctx, userID, taskID)
	if err != nil {
		return err
	}
	return s.tasks.SetCompleted(ctx, task.ID, completed)
}

// authorize はタスクを取得し、所有者が userID と一致することを確認します。
// タスク単位の操作はすべてこのヘルパーを経由します。
func (s *Service) authorize(ctx context.Context, userID, taskID int64) (*store.Task, error) {
	task, err := s.tasks.TaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.E(apperr.CodeTaskNotFound, taskNotFoundMessage)
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, apperr.E(apperr.CodeForbidden, taskNotFoundMessage)
	}
	return task, nil
}

// normalizeDate は日付文字列を検証して正規化します。空文字列は nil になります。
func normalizeDate(value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperr.E(apperr.CodeInvalidFormat, "日付は YYYY-MM-DD 形式で入力してください")
	}
	normalized := t.Format(dateLayout)
	return &normalized, nil
}

// normalizeTime は時刻文字列を検証して正規化します。秒付きの入力も受け付けます。
func normalizeTime(value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{timeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			normalized := t.Format(timeLayout)
			return &normalized, nil
		}
	}
	return nil, apperr.E(apperr.CodeInvalidFormat, "時刻は HH:MM 形式で入力してください")
}
