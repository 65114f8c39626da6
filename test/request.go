package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fest-judging-system/internal/global/jwt"
	"fest-judging-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// DoRequest 直接调用单个 handler，body 为 nil 时不带请求体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any, opts ...RequestOption) (resp response.ResponseBody) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var body []byte
	if request != nil {
		var err error
		body, err = json.Marshal(request)
		require.NoError(t, err)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// Serve 通过完整路由发请求，用于需要中间件的场景
func Serve(t *testing.T, r http.Handler, method, path string, request any, token string) (*httptest.ResponseRecorder, response.ResponseBody) {
	var body []byte
	if request != nil {
		var err error
		body, err = json.Marshal(request)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.ResponseBody
	if json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

type RequestOption func(c *gin.Context)

func WithParam(key, value string) RequestOption {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: key, Value: value})
	}
}

func WithQuery(rawQuery string) RequestOption {
	return func(c *gin.Context) {
		c.Request.URL.RawQuery = rawQuery
	}
}

func WithPayload(p jwt.Payload) RequestOption {
	return func(c *gin.Context) {
		c.Set(jwt.PayloadKey, &jwt.Claims{Payload: p})
	}
}

// DecodeData 把 ResponseBody.Data 转成具体结构
func DecodeData(t *testing.T, resp response.ResponseBody, out any) {
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
