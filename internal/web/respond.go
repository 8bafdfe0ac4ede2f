package web

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/go-todo/internal/apperr"
)

// GenericFailureMessage は想定外のエラー時にユーザーへ表示する定型文です。
const GenericFailureMessage = "処理に失敗しました。時間をおいて再度お試しください。"

// FlashError は業務エラーのメッセージをフラッシュ通知に変換します。
// *apperr.Error 以外のエラー（永続化や接続の失敗）は定型文に丸めます。
func FlashError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		Error(c, appErr.Message)
		return
	}
	Error(c, GenericFailureMessage)
}
