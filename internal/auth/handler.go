package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/go-todo/internal/session"
	"github.com/yourusername/go-todo/internal/web"
)

// Handler は認証まわりのHTTPハンドラーをまとめた構造体です。
// 状態を変更するエンドポイントはすべてリダイレクトで応答します。
type Handler struct {
	svc          *Service
	cookieMaxAge int
}

// NewHandler は認証ハンドラーを作成します。
// cookieMaxAge はセッションクッキーの MaxAge（秒）です。
func NewHandler(svc *Service, cookieMaxAge int) *Handler {
	return &Handler{
		svc:          svc,
		cookieMaxAge: cookieMaxAge,
	}
}

// ShowLogin は GET /login のハンドラーです。
func (h *Handler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": web.Take(c),
	})
}

// Login は POST /login のハンドラーです。
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	record, err := h.svc.Login(c.Request.Context(), username, password)
	if err != nil {
		web.FlashError(c, err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session.SetCookie(c, record.Token, h.cookieMaxAge)
	c.Redirect(http.StatusFound, "/todo")
}

// ShowRegister は GET /register のハンドラーです。
func (h *Handler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Flashes": web.Take(c),
	})
}

// Register は POST /register のハンドラーです。
// 成功してもセッションは作成せず、ホームへ戻してログインを促します。
func (h *Handler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirm := c.PostForm("confirm_password")

	if _, err := h.svc.Register(c.Request.Context(), username, password, confirm); err != nil {
		web.FlashError(c, err)
		c.Redirect(http.StatusFound, "/register")
		return
	}

	web.Success(c, "登録が完了しました。ログインしてください")
	c.Redirect(http.StatusFound, "/")
}

// Logout は GET /logout のハンドラーです。
// セッションが無い場合も成功として扱い、ホームへ戻します。
func (h *Handler) Logout(c *gin.Context) {
	token := session.TokenFromRequest(c)
	if token != "" {
		if err := h.svc.Logout(c.Request.Context(), token); err != nil {
			log.Printf("failed to delete session: %v", err)
		}
		session.ClearCookie(c)
	}
	c.Redirect(http.StatusFound, "/")
}
