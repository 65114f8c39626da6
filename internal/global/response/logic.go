package response

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// gin.Context 中的键：ErrorContextKey 存放 *Error，ResponseContextKey 存放响应体供 Sentry 上报
const (
	ErrorContextKey    = "error"
	ResponseContextKey = "response_body"
)

// stackTracer 是 pkg/errors 带堆栈错误的接口
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Error 是接口统一返回的业务错误，Code 与 HTTP 状态码一致
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
	// Origin 仅在 debug 模式下返回给前端
	Origin string `json:"origin"`

	cause error
	stack pkgerrors.StackTrace
}

func newError(code int32, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// clone 复制一份错误，全局错误变量本身不可被修改
func (e *Error) clone() *Error {
	cp := *e
	return &cp
}

func (e *Error) Error() string {
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode 供 Sentry 按错误码过滤
func (e *Error) GetCode() int32 { return e.Code }

func (e *Error) Unwrap() error { return e.cause }

// StackTrace 优先返回自身记录的堆栈，其次是原始错误的堆栈
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e.stack != nil {
		return e.stack
	}
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// Is 只比较错误码，WithTips/WithOrigin 派生出的错误仍与原错误相等
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithOrigin 挂上原始错误，原始错误没有堆栈时在此处补上
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}
	if _, ok := err.(stackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}

	out := e.clone()
	out.cause = err
	out.Origin = fmt.Sprintf("%+v", err)
	out.stack = err.(stackTracer).StackTrace()
	return out
}
