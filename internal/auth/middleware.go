package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/go-todo/internal/apperr"
	"github.com/yourusername/go-todo/internal/session"
	"github.com/yourusername/go-todo/internal/web"
)

// ContextUserIDKey は、ハンドラー間で認証済みユーザーIDを共有するためのキーです。
const ContextUserIDKey = "auth.userID"

// RequireLogin はセッションを検証するミドルウェアを返します。
// 有効なセッションが無い場合は /login へリダイレクトします。
func RequireLogin(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.TokenFromRequest(c)
		if token == "" {
			redirectToLogin(c)
			return
		}

		record, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			log.Printf("failed to load session: %v", err)
			web.Error(c, web.GenericFailureMessage)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if record == nil {
			// 期限切れトークンのクッキーは捨てさせる
			session.ClearCookie(c)
			redirectToLogin(c)
			return
		}

		if err := sessions.Touch(c.Request.Context(), token); err != nil {
			log.Printf("failed to touch session: %v", err)
		}

		c.Set(ContextUserIDKey, record.UserID)
		c.Next()
	}
}

// UserID はミドルウェアが設定した認証済みユーザーIDを取り出します。
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if userID, ok := v.(int64); ok {
			return userID
		}
	}
	return 0
}

func redirectToLogin(c *gin.Context) {
	web.FlashError(c, apperr.E(apperr.CodeUnauthenticated, "ログインしてください"))
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}
