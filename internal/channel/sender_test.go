package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPSenderPostsMessage(t *testing.T) {
	var got sendPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/messages", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL, "tok", nil, nil)
	require.NoError(t, s.Send(context.Background(), "11987654321@c.us", "Olá!"))
	require.Equal(t, "11987654321@c.us", got.To)
	require.Equal(t, "Olá!", got.Body)
}

func TestHTTPSenderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL, "", nil, nil)
	require.NoError(t, s.Send(context.Background(), "a@c.us", "hi"))
	require.Equal(t, int32(3), calls.Load())
}

func TestHTTPSenderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad number", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s := NewHTTPSender(srv.URL, "", nil, nil)
	err := s.Send(context.Background(), "a@c.us", "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "422")
	require.Equal(t, int32(1), calls.Load())
}

func TestHTTPSenderValidatesInput(t *testing.T) {
	s := NewHTTPSender("https://gw.example.com", "", nil, nil)
	require.Error(t, s.Send(context.Background(), "", "hi"))
	require.Error(t, s.Send(context.Background(), "a@c.us", " "))

	empty := NewHTTPSender("", "", nil, nil)
	require.Error(t, empty.Send(context.Background(), "a@c.us", "hi"))
}
