package client

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-App-Id"); got != "secret" {
			t.Errorf("X-Api-App-Id = %q, want %q", got, "secret")
		}
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", got, DefaultUserAgent)
		}
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	headers := DefaultHeaders("")
	headers.Set("X-Api-App-Id", "secret")

	body, err := GetJSON(context.Background(), CreateHTTPClient(time.Second), server.URL, headers, RetryPolicy{})
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if string(body) != `{"items": []}` {
		t.Errorf("GetJSON() body = %q", body)
	}
}

func TestGetJSON_Gzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte(`{"found": 3}`))
		gz.Close()
	}))
	defer server.Close()

	body, err := GetJSON(context.Background(), CreateHTTPClient(time.Second), server.URL, DefaultHeaders(""), RetryPolicy{})
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if string(body) != `{"found": 3}` {
		t.Errorf("GetJSON() body = %q", body)
	}
}

func TestGetJSON_NonSuccessStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "invalid app id"}`))
	}))
	defer server.Close()

	_, err := GetJSON(context.Background(), CreateHTTPClient(time.Second), server.URL, nil, RetryPolicy{Retries: 3})
	if err == nil {
		t.Fatal("GetJSON() error = nil, want status error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("GetJSON() error = %T, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusForbidden)
	}
	// 403 is not retryable
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

func TestGetJSON_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	policy := RetryPolicy{Retries: 2, Backoff: time.Millisecond}
	if _, err := GetJSON(context.Background(), CreateHTTPClient(time.Second), server.URL, nil, policy); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

func TestGetJSON_NoRetryByDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := GetJSON(context.Background(), CreateHTTPClient(time.Second), server.URL, nil, RetryPolicy{}); err == nil {
		t.Fatal("GetJSON() error = nil, want error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestGetJSON_RetriesTransportErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	httpClient := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) < 2 {
			return nil, errors.New("connection reset by peer")
		}
		return http.DefaultTransport.RoundTrip(req)
	})}

	policy := RetryPolicy{Retries: 2, Backoff: time.Millisecond}
	if _, err := GetJSON(context.Background(), httpClient, server.URL, nil, policy); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("transport calls = %d, want 2", got)
	}
}

func TestGetJSON_NoRetryOnBadRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// a retry would wait for the backoff and hit the deadline
	policy := RetryPolicy{Retries: 3, Backoff: time.Hour}
	_, err := GetJSON(ctx, CreateHTTPClient(time.Second), "://bad", nil, policy)
	if err == nil {
		t.Fatal("GetJSON() error = nil, want error")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("GetJSON() error = %v, request construction errors must not be retried", err)
	}
	if !strings.Contains(err.Error(), "failed to create request") {
		t.Errorf("GetJSON() error = %v, want request construction error", err)
	}
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
}

func TestCreateProxyHTTPClient(t *testing.T) {
	if _, err := CreateProxyHTTPClient("http://localhost:8080", 0); err != nil {
		t.Fatalf("CreateProxyHTTPClient() error = %v", err)
	}
	if _, err := CreateProxyHTTPClient("://bad", 0); err == nil {
		t.Error("CreateProxyHTTPClient() error = nil, want error for malformed URL")
	}
}
