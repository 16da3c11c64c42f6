package translator

import (
	"errors"
	"net/http"
	"strings"
)

// Kind 错误类别，请求层按类别映射状态码
type Kind string

const (
	KindValidation  Kind = "validation"
	KindExtraction  Kind = "extraction"
	KindTranslation Kind = "translation"
	KindGeneration  Kind = "generation"
)

// ErrNoText PDF 中没有可提取的文本
var ErrNoText = errors.New("the PDF does not contain any text to translate")

// Error 带类别的错误，Cause 只用于日志
type Error struct {
	Kind  Kind
	Op    string // 出错阶段前缀，例如 "failed to translate document"
	Msg   string // 可以返回给客户端的说明
	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Cause != nil && e.Cause.Error() != e.Msg {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Public 返回不包含底层原因的客户端消息
func (e *Error) Public() string {
	if e.Op == "" {
		return e.Msg
	}
	return capitalize(e.Op) + ": " + e.Msg
}

// StatusCode 类别对应的 HTTP 状态码
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindTranslation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// withOp 给错误加上阶段前缀；已经带类别的错误保留原类别
func withOp(op string, kind Kind, msg string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Op: op, Msg: e.Msg, Cause: e.Cause}
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Cause: err}
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
