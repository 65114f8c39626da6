package server

import (
	"net/http"
	"testing"

	"fest-judging-system/internal/global/logger"
	"fest-judging-system/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_RegistersAllModules(t *testing.T) {
	test.NewDB(t)
	log = logger.New("Server")

	var r http.Handler
	require.NotPanics(t, func() { r = Router() })

	w, resp := test.Serve(t, r, http.MethodGet, "/api/ping", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	test.NoError(t, resp)

	// 需要鉴权的接口没有令牌时返回 401
	w, _ = test.Serve(t, r, http.MethodGet, "/api/admin/analytics", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
