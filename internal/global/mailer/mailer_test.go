package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fest-judging-system/config"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got sendReq
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New(resty.New(), config.Mail{Endpoint: srv.URL, APIKey: "key", From: "fest@school.test"})
	require.NoError(t, m.Send(context.Background(), "rao@school.test", "code", OTPContent("123456", 5)))
	assert.Equal(t, "Bearer key", auth)
	assert.Equal(t, "fest@school.test", got.From)
	assert.Equal(t, "rao@school.test", got.To)
	assert.Contains(t, got.HTML, "<b>123456</b>")
}

func TestSend_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := New(resty.New(), config.Mail{Endpoint: srv.URL})
	err := m.Send(context.Background(), "rao@school.test", "code", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
