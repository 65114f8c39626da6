package response

import (
	"errors"
	"net/http"

	"fest-judging-system/config"
	"fest-judging-system/internal/global/logger"
	"fest-judging-system/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Data   any    `json:"data,omitempty"`
	Origin string `json:"origin,omitempty"`
}

func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: http.StatusOK, Msg: "success"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Fail 统一错误出口，非 *Error 的错误按服务器内部错误处理
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}
	body := ResponseBody{Code: e.Code, Msg: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	c.Set(ErrorContextKey, e)
	c.Set(ResponseContextKey, body)
	if e.HTTPStatus() >= http.StatusInternalServerError {
		logger.WithContext(logger.New("Response"), c).Error("服务端错误",
			"path", c.Request.URL.Path, "code", e.Code, "msg", e.Message, "origin", e.Origin)
		sentry.CaptureException(c, e)
	}
	c.AbortWithStatusJSON(e.HTTPStatus(), body)
}

// Recovery 捕获 panic 并返回 500
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		var err error
		switch v := r.(type) {
		case error:
			err = v
		default:
			err = errors.New(http.StatusText(http.StatusInternalServerError))
		}
		logger.New("Recovery").Error("请求处理 panic", "panic", r, "path", c.Request.URL.Path)
		Fail(c, ErrServerInternal.WithOrigin(err))
	}
}
