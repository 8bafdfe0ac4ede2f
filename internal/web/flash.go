// Package web はページ描画に共通するフラッシュ通知のヘルパーを提供します。
package web

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// FlashCookieName はフラッシュ通知を保持するクッキーセッション名です。
const FlashCookieName = "todo_flash"

// フラッシュ通知のカテゴリー
const (
	CategoryError   = "error"
	CategorySuccess = "success"
)

// Notice は1件のフラッシュ通知です。テンプレートの .Flashes に渡されます。
type Notice struct {
	Category string
	Message  string
}

// Error はエラー通知を積みます。次のページ描画で1回だけ表示されます。
func Error(c *gin.Context, message string) {
	addFlash(c, CategoryError, message)
}

// Success は成功通知を積みます。
func Success(c *gin.Context, message string) {
	addFlash(c, CategorySuccess, message)
}

func addFlash(c *gin.Context, category, message string) {
	s := sessions.Default(c)
	s.AddFlash(message, category)
	// リダイレクト前に確定させる必要があるためここで保存する
	_ = s.Save()
}

// Take は積まれている通知をすべて取り出して消化します。
func Take(c *gin.Context) []Notice {
	s := sessions.Default(c)

	var notices []Notice
	for _, category := range []string{CategoryError, CategorySuccess} {
		for _, v := range s.Flashes(category) {
			message, ok := v.(string)
			if !ok {
				continue
			}
			notices = append(notices, Notice{Category: category, Message: message})
		}
	}
	_ = s.Save()
	return notices
}
