package test

import (
	"errors"
	"testing"

	"fest-judging-system/internal/global/response"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	require.Equal(t, expected.Code, resp.Code)
	require.Contains(t, resp.Msg, expected.Message)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	require.Equal(t, int32(200), resp.Code, resp.Msg)
}

// ErrorIs 断言服务层返回的错误码
func ErrorIs(t *testing.T, err error, expected *response.Error) *response.Error {
	require.Error(t, err)
	var e *response.Error
	require.True(t, errors.As(err, &e), "expected *response.Error, got %T: %v", err, err)
	require.Equal(t, expected.Code, e.Code, e.Message)
	return e
}
