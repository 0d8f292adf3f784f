package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetrySucceedsEventually(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("bad request")
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, permanent errors must not retry", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: errors.New("still down")}
	})
	if err == nil {
		t.Fatal("expected the last error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %s", got)
		}
		w.Write([]byte(`[{"sku": "COLA-330"}]`))
	}))
	defer srv.Close()

	var items []struct {
		SKU string `json:"sku"`
	}
	if err := GetJSON(context.Background(), nil, srv.URL, &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].SKU != "COLA-330" {
		t.Fatalf("items = %+v", items)
	}
}

func TestGetJSONErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"server error", http.StatusInternalServerError, true},
		{"bad gateway", http.StatusBadGateway, true},
		{"not found", http.StatusNotFound, false},
		{"forbidden", http.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var v any
			err := GetJSON(context.Background(), nil, srv.URL, &v)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := isRetryable(err); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestGetJSONConnectionErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	var v any
	err := GetJSON(context.Background(), nil, srv.URL, &v)
	if err == nil || !isRetryable(err) {
		t.Fatalf("err = %v, want retryable network failure", err)
	}
}

func TestGetJSONParseErrorIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var v any
	err := GetJSON(context.Background(), nil, srv.URL, &v)
	if err == nil || isRetryable(err) {
		t.Fatalf("err = %v, want permanent parse failure", err)
	}
}

func TestRetryWithBackoffAgainstFlakyServer(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	var v struct {
		OK bool `json:"ok"`
	}
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		return GetJSON(context.Background(), nil, srv.URL, &v)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !v.OK || calls.Load() != 2 {
		t.Fatalf("ok=%v calls=%d", v.OK, calls.Load())
	}
}
