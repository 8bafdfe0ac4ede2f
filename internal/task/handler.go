package task

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/go-todo/internal/apperr"
	"github.com/yourusername/go-todo/internal/auth"
	"github.com/yourusername/go-todo/internal/web"
)

// Handler はタスクまわりのHTTPハンドラーをまとめた構造体です。
// いずれも RequireLogin ミドルウェアの内側で動作し、状態を変更する
// エンドポイントはすべて /todo へのリダイレクトで応答します。
type Handler struct {
	svc *Service
}

// NewHandler はタスクハンドラーを作成します。
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListPage は GET /todo のハンドラーです。
func (h *Handler) ListPage(c *gin.Context) {
	tasks, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		web.FlashError(c, err)
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "todo.html", gin.H{
		"Flashes": web.Take(c),
		"Tasks":   tasks,
	})
}

// Create は POST /todo のハンドラーです。
func (h *Handler) Create(c *gin.Context) {
	_, err := h.svc.Add(c.Request.Context(), auth.UserID(c),
		c.PostForm("description"), c.PostForm("date"), c.PostForm("time"))
	if err != nil {
		web.FlashError(c, err)
	}
	c.Redirect(http.StatusFound, "/todo")
}

// EditPage は GET /edit_task/:id のハンドラーです。
func (h *Handler) EditPage(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.svc.Get(c.Request.Context(), auth.UserID(c), taskID)
	if err != nil {
		web.FlashError(c, err)
		c.Redirect(http.StatusFound, "/todo")
		return
	}

	c.HTML(http.StatusOK, "edit_task.html", gin.H{
		"Flashes": web.Take(c),
		"Task":    task,
	})
}

// Edit は POST /edit_task/:id のハンドラーです。
func (h *Handler) Edit(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	_, err := h.svc.Edit(c.Request.Context(), auth.UserID(c), taskID,
		c.PostForm("description"), c.PostForm("date"), c.PostForm("time"))
	if err != nil {
		web.FlashError(c, err)
		// 入力エラーはフォームに戻してやり直させる
		if code := apperr.CodeOf(err); code == apperr.CodeValidation || code == apperr.CodeInvalidFormat {
			c.Redirect(http.StatusFound, "/edit_task/"+strconv.FormatInt(taskID, 10))
			return
		}
	}
	c.Redirect(http.StatusFound, "/todo")
}

// Mark は POST /mark_task/:id のハンドラーです。
func (h *Handler) Mark(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.svc.MarkComplete(c.Request.Context(), auth.UserID(c), taskID); err != nil {
		web.FlashError(c, err)
	}
	c.Redirect(http.StatusFound, "/todo")
}

// Undo は POST /undo_task/:id のハンドラーです。
func (h *Handler) Undo(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.svc.UndoComplete(c.Request.Context(), auth.UserID(c), taskID); err != nil {
		web.FlashError(c, err)
	}
	c.Redirect(http.StatusFound, "/todo")
}

// Delete は POST /delete_task/:id のハンドラーです。
func (h *Handler) Delete(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), taskID); err != nil {
		web.FlashError(c, err)
	}
	c.Redirect(http.StatusFound, "/todo")
}

// parseTaskID はパスパラメーターのタスクIDを解釈します。
// 不正なIDは存在しないタスクと同じ扱いで一覧へ戻します。
func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		web.Error(c, taskNotFoundMessage)
		c.Redirect(http.StatusFound, "/todo")
		return 0, false
	}
	return id, true
}
