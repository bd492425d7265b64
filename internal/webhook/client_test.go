package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmptyURLIsDisabled(t *testing.T) {
	c := New("  ", nil)
	assert.Nil(t, c)
	assert.False(t, c.Enabled())
	assert.Error(t, c.Send(context.Background(), "hi"))
}

func TestSendPostsTextMessage(t *testing.T) {
	var got TextMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"errcode":0,"errmsg":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	require.True(t, c.Enabled())
	require.NoError(t, c.Send(context.Background(), "新空投"))

	assert.Equal(t, "text", got.MsgType)
	assert.Equal(t, "新空投", got.Text.Content)
}

func TestSendNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL, srv.Client()).Send(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSendRobotErrCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errcode":93000,"errmsg":"invalid webhook url"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, srv.Client()).Send(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "93000")
}

func TestSendPlainOKBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, srv.Client()).Send(context.Background(), "x"))
}
