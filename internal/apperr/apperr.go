// Package apperr はサービス層が返す業務エラーの型とコードを定義します。
package apperr

import (
	"errors"
	"fmt"
)

// サービス層が使用するエラーコード。
// ルーティング層はコードごとにユーザー向けの通知とリダイレクト先を決定します。
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeTaskNotFound       = "TASK_NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
)

// Error はコードとユーザー向けメッセージを持つ業務エラーです。
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// E は Error を作成します。
func E(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf は err が *Error の場合そのコードを返します。それ以外は空文字列です。
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
