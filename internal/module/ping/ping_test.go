package ping

import (
	"net/http"
	"strings"
	"testing"

	"fest-judging-system/internal/global/metrics"
	"fest-judging-system/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	test.NewDB(t)

	resp := test.DoRequest(t, Ping, nil)
	test.NoError(t, resp)
	var data struct {
		Message  string            `json:"message"`
		Services map[string]string `json:"services"`
	}
	test.DecodeData(t, resp, &data)
	assert.Equal(t, "pong", data.Message)
	assert.Equal(t, "ok", data.Services["database"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := gin.New()
	(&ModulePing{}).InitRouter(r.Group("/api"))
	metrics.JudgmentsSubmitted.Inc()

	w, _ := test.Serve(t, r, http.MethodGet, "/api/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "fest_judgments_submitted_total"))
}
