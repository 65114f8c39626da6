package response

import (
	"net/http"
	"strings"
)

// 错误码与 HTTP 状态码保持一致，便于前端和 Sentry 统一判断
var (
	ErrInvalidRequest  = newError(http.StatusBadRequest, "请求参数错误")
	ErrInvalidPassword = newError(http.StatusBadRequest, "账号或密码错误")
	ErrTokenInvalid    = newError(http.StatusUnauthorized, "登录状态无效")
	ErrUnauthorized    = newError(http.StatusUnauthorized, "未授权")
	ErrForbidden       = newError(http.StatusForbidden, "无权限")
	ErrNotFound        = newError(http.StatusNotFound, "资源不存在")
	ErrAlreadyExists   = newError(http.StatusConflict, "资源已存在")
	ErrDatabase        = newError(http.StatusInternalServerError, "数据库错误")
	ErrServerInternal  = newError(http.StatusInternalServerError, "服务器内部错误")
	ErrUpstream        = newError(http.StatusBadGateway, "外部服务调用失败")
)

// HTTPStatus 将错误码映射为 HTTP 状态码
func (e *Error) HTTPStatus() int {
	if e.Code >= 400 && e.Code < 600 {
		return int(e.Code)
	}
	return http.StatusInternalServerError
}

// tipsSep 分隔基础消息与提示
const tipsSep = ": "

// WithTips 向前端返回额外的提示信息（release 模式也可见）
// 提示里应写明出错的具体对象，例如参赛学生姓名
func (e *Error) WithTips(details ...string) *Error {
	out := e.clone()
	if len(details) > 0 {
		out.Message = e.Message + tipsSep + strings.Join(details, "; ")
	}
	return out
}

// Tips 返回 WithTips 追加的提示部分
func (e *Error) Tips() string {
	_, tips, _ := strings.Cut(e.Message, tipsSep)
	return tips
}
