package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ALLiDoizCode/adp-relay/core"
	"github.com/ALLiDoizCode/adp-relay/resilience"
)

func fastRetry() *resilience.RetryConfig {
	return &resilience.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestHTTPTransportRead(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var msg wireMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		if len(msg.Tags) == 0 || msg.Tags[0].Value != "Info" {
			t.Errorf("tags = %+v", msg.Tags)
		}

		json.NewEncoder(w).Encode(wireMessage{
			Tags:    []core.Tag{{Name: "Status", Value: "ok"}},
			Payload: `{"handlers": []}`,
		})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, WithRetryConfig(fastRetry()))
	resp, err := tr.Read(context.Background(), "calc", []core.Tag{{Name: "Action", Value: "Info"}})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if gotPath != "/actors/calc/read" {
		t.Errorf("path = %q", gotPath)
	}
	if v, ok := resp.TagValue("Status"); !ok || v != "ok" {
		t.Errorf("status tag = %q, %v", v, ok)
	}
	if resp.Payload != `{"handlers": []}` {
		t.Errorf("payload = %q", resp.Payload)
	}
}

func TestHTTPTransportSendCarriesCredential(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(wireMessage{Payload: `"accepted"`})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, WithRetryConfig(fastRetry()))
	_, err := tr.Send(context.Background(), "secret-token", "wallet",
		[]core.Tag{{Name: "Action", Value: "transfer"}}, []byte(`{"amount":50}`))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotPath != "/actors/wallet/message" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestHTTPTransportRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(wireMessage{Payload: `"recovered"`})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, WithRetryConfig(fastRetry()))
	resp, err := tr.Read(context.Background(), "calc", nil)
	if err != nil {
		t.Fatalf("Read failed after retries: %v", err)
	}
	if resp.Payload != `"recovered"` {
		t.Errorf("payload = %q", resp.Payload)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestHTTPTransportClientErrorsAreTerminal(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, WithRetryConfig(fastRetry()))
	_, err := tr.Read(context.Background(), "missing", nil)
	if !errors.Is(err, core.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	// 4xx must not burn retry attempts.
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("client error retried %d times", calls)
	}
}

func TestHTTPTransportKeepsNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text result"))
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, WithRetryConfig(fastRetry()))
	resp, err := tr.Read(context.Background(), "calc", nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if resp.Payload != "plain text result" {
		t.Errorf("payload = %q", resp.Payload)
	}
}

func TestHTTPTransportConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	tr := NewHTTPTransport(server.URL, WithRetryConfig(fastRetry()))
	_, err := tr.Read(context.Background(), "calc", nil)
	if err == nil {
		t.Fatal("expected a connection failure")
	}
	if !errors.Is(err, core.ErrMaxRetriesExceeded) {
		t.Errorf("error %v does not wrap ErrMaxRetriesExceeded", err)
	}
}
