package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetCookie はセッショントークンをHttpOnlyクッキーとしてレスポンスに設定します。
// Secure フラグは release モードでのみ有効にします。
func SetCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   gin.Mode() == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie はセッションクッキーを削除します。
func ClearCookie(c *gin.Context) {
	SetCookie(c, "", -1)
}

// TokenFromRequest はリクエストのクッキーからセッショントークンを取り出します。
// クッキーが無い場合は空文字列を返します。
func TokenFromRequest(c *gin.Context) string {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}
