package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yourusername/go-todo/internal/apperr"
	"github.com/yourusername/go-todo/internal/auth"
	"github.com/yourusername/go-todo/internal/session"
	"github.com/yourusername/go-todo/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory, int64, int64) {
	t.Helper()
	mem := store.NewMemory()

	owner, err := mem.CreateUser(context.Background(), "alice", "hash-a")
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	other, err := mem.CreateUser(context.Background(), "bob", "hash-b")
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return NewService(mem), mem, owner.ID, other.ID
}

func TestAddAndList(t *testing.T) {
	svc, _, owner, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, owner, "buy milk", "2024-01-01", "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if added.Completed {
		t.Fatal("new task marked completed")
	}
	if added.DueDate == nil || *added.DueDate != "2024-01-01" {
		t.Fatalf("unexpected due date: %v", added.DueDate)
	}
	if added.DueTime != nil {
		t.Fatalf("expected nil due time, got %v", *added.DueTime)
	}

	tasks, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	count := 0
	for _, task := range tasks {
		if task.ID == added.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("added task appears %d times in list, want 1", count)
	}
}

func TestAddRequiresDescription(t *testing.T) {
	svc, _, owner, _ := newTestService(t)

	_, err := svc.Add(context.Background(), owner, "   ", "", "")
	if apperr.CodeOf(err) != apperr.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddMalformedDateAndTime(t *testing.T) {
	svc, _, owner, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		date string
		time string
	}{
		{"bad date", "01-01-2024", ""},
		{"not a date", "tomorrow", ""},
		{"bad time", "", "9h30"},
		{"out of range time", "", "25:00"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, owner, "buy milk", tc.date, tc.time)
			if apperr.CodeOf(err) != apperr.CodeInvalidFormat {
				t.Fatalf("expected format error, got %v", err)
			}
		})
	}

	tasks, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("malformed input created %d tasks", len(tasks))
	}
}

func TestAddNormalizesTimeWithSeconds(t *testing.T) {
	svc, _, owner, _ := newTestService(t)

	added, err := svc.Add(context.Background(), owner, "standup", "", "09:30:00")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if added.DueTime == nil || *added.DueTime != "09:30" {
		t.Fatalf("unexpected due time: %v", added.DueTime)
	}
}

func TestEditOverwritesFieldsAndKeepsCompleted(t *testing.T) {
	svc, _, owner, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, owner, "buy milk", "2024-01-01", "09:00")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.MarkComplete(ctx, owner, added.ID); err != nil {
		t.Fatalf("MarkComplete returned error: %v", err)
	}

	// 日付・時刻を空で送ると未設定に戻る
	edited, err := svc.Edit(ctx, owner, added.ID, "buy oat milk", "", "")
	if err != nil {
		t.Fatalf("Edit returned error: %v", err)
	}
	if edited.Description != "buy oat milk" {
		t.Fatalf("unexpected description: %q", edited.Description)
	}
	if edited.DueDate != nil || edited.DueTime != nil {
		t.Fatalf("expected cleared date/time, got %v %v", edited.DueDate, edited.DueTime)
	}

	reloaded, err := svc.Get(ctx, owner, added.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !reloaded.Completed {
		t.Fatal("Edit must not touch the completed flag")
	}
}

func TestEditByNonOwnerDoesNotMutate(t *testing.T) {
	svc, _, owner, other := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, owner, "buy milk", "2024-01-01", "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	_, err = svc.Edit(ctx, other, added.ID, "hijacked", "2030-12-31", "23:59")
	if apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	reloaded, err := svc.Get(ctx, owner, added.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if reloaded.Description != "buy milk" || reloaded.DueDate == nil || *reloaded.DueDate != "2024-01-01" {
		t.Fatalf("task mutated by non-owner: %+v", reloaded)
	}
}

func TestOwnershipErrorsShareUserFacingMessage(t *testing.T) {
	svc, _, owner, other := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, owner, "buy milk", "", "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	_, missingErr := svc.Get(ctx, owner, added.ID+100)
	_, foreignErr := svc.Get(ctx, other, added.ID)

	var missing, foreign *apperr.Error
	if !errors.As(missingErr, &missing) || !errors.As(foreignErr, &foreign) {
		t.Fatalf("expected app errors, got %v / %v", missingErr, foreignErr)
	}
	if missing.Code != apperr.CodeTaskNotFound || foreign.Code != apperr.CodeForbidden {
		t.Fatalf("unexpected codes: %s / %s", missing.Code, foreign.Code)
	}
	// 他ユーザーのタスクの存在を漏らさないため、表示文言は同一でなければならない
	if missing.Message != foreign.Message {
		t.Fatalf("messages differ: %q vs %q", missing.Message, foreign.Message)
	}
}

func TestStrictOwnershipOnCompletionToggles(t *testing.T) {
	svc, _, owner, other := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, owner, "buy milk", "", "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := svc.MarkComplete(ctx, other, added.ID); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Fatalf("MarkComplete by non-owner: expected forbidden, got %v", err)
	}
	if err := svc.UndoComplete(ctx, other, added.ID); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Fatalf("UndoComplete by non-owner: expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, other, added.ID); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Fatalf("Delete by non-owner: expected forbidden, got %v", err)
	}

	reloaded, err := svc.Get(ctx, owner, added.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if reloaded.Completed {
		t.Fatal("completed flag changed by non-owner")
	}
}

func TestDeleteRemovesTaskFromList(t *testing.T) {
	svc, _, owner, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, owner, "buy milk", "", "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.Delete(ctx, owner, added.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	tasks, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for _, task := range tasks {
		if task.ID == added.ID {
			t.Fatal("deleted task still listed")
		}
	}

	if err := svc.Delete(ctx, owner, added.ID); apperr.CodeOf(err) != apperr.CodeTaskNotFound {
		t.Fatalf("second Delete: expected not found, got %v", err)
	}
}

// 登録からタスクのライフサイクルまでを通しで確認します。
func TestRegisterLoginTaskLifecycle(t *testing.T) {
	mem := store.NewMemory()
	sessions := newLifecycleSessionStore()
	authSvc := auth.NewService(mem, sessions)
	taskSvc := NewService(mem)
	ctx := context.Background()

	registered, err := authSvc.Register(ctx, "alice", "pw1", "pw1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := authSvc.Register(ctx, "alice", "pw2", "pw2"); apperr.CodeOf(err) != apperr.CodeConflict {
		t.Fatalf("re-register: expected conflict, got %v", err)
	}
	if _, err := authSvc.Login(ctx, "alice", "wrong"); apperr.CodeOf(err) != apperr.CodeInvalidCredentials {
		t.Fatalf("wrong-password login: expected invalid credentials, got %v", err)
	}

	record, err := authSvc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if record.UserID != registered.ID {
		t.Fatalf("session bound to user %d, want %d", record.UserID, registered.ID)
	}

	added, err := taskSvc.Add(ctx, record.UserID, "buy milk", "2024-01-01", "")
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if added.Completed || added.DueDate == nil || *added.DueDate != "2024-01-01" {
		t.Fatalf("unexpected new task: %+v", added)
	}

	if err := taskSvc.MarkComplete(ctx, record.UserID, added.ID); err != nil {
		t.Fatalf("MarkComplete returned error: %v", err)
	}
	if got, _ := taskSvc.Get(ctx, record.UserID, added.ID); got == nil || !got.Completed {
		t.Fatal("task not completed after mark")
	}

	if err := taskSvc.UndoComplete(ctx, record.UserID, added.ID); err != nil {
		t.Fatalf("UndoComplete returned error: %v", err)
	}
	if got, _ := taskSvc.Get(ctx, record.UserID, added.ID); got == nil || got.Completed {
		t.Fatal("task still completed after undo")
	}

	if err := taskSvc.Delete(ctx, record.UserID, added.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	tasks, err := taskSvc.List(ctx, record.UserID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("deleted task still listed: %+v", tasks)
	}
}

type lifecycleSessionStore struct {
	records map[string]*session.Session
	nextID  int
}

func newLifecycleSessionStore() *lifecycleSessionStore {
	return &lifecycleSessionStore{records: make(map[string]*session.Session)}
}

func (s *lifecycleSessionStore) Create(_ context.Context, userID int64) (*session.Session, error) {
	s.nextID++
	record := &session.Session{
		Token:     fmt.Sprintf("token-%d", s.nextID),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	s.records[record.Token] = record
	return record, nil
}

func (s *lifecycleSessionStore) Get(_ context.Context, token string) (*session.Session, error) {
	record, ok := s.records[token]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (s *lifecycleSessionStore) Touch(_ context.Context, _ string) error {
	return nil
}

func (s *lifecycleSessionStore) Delete(_ context.Context, token string) error {
	delete(s.records, token)
	return nil
}
