package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hearing/internal/domain"
)

func noBackoff(int) time.Duration { return 0 }

func TestClient_Tokenize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tokenize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req tokenizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "Senator Brown." {
			t.Errorf("unexpected text %q", req.Text)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tokens":[
			{"text":"Senator","whitespace":" ","is_sent_start":true},
			{"text":"Brown","ent_type":"PERSON","is_sent_start":false},
			{"text":".","whitespace":"","is_sent_start":false}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	defer c.Close()

	tokens, err := c.Tokenize(context.Background(), "Senator Brown.")
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Token{
		{Text: "Senator", Whitespace: " ", SentenceStart: true},
		{Text: "Brown", EntityType: domain.EntityPerson},
		{Text: "."},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d] = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"tokens":[{"text":"ok","is_sent_start":true}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.backoff = noBackoff

	tokens, err := c.Tokenize(context.Background(), "ok")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 1 || calls.Load() != 2 {
		t.Errorf("expected 1 token after 2 calls, got %d tokens after %d calls", len(tokens), calls.Load())
	}
}

func TestClient_StatusError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad text", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.backoff = noBackoff

	_, err := c.Tokenize(context.Background(), "x")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || statusErr.Temporary() {
		t.Errorf("unexpected status error %+v", statusErr)
	}
	if calls.Load() != 1 {
		t.Errorf("client errors must not be retried, got %d calls", calls.Load())
	}
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.backoff = noBackoff

	_, err := c.Tokenize(context.Background(), "x")
	if !IsRetryable(err) {
		t.Errorf("expected retryable error, got %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Tokenize(context.Background(), "x")
	if err == nil || IsRetryable(err) {
		t.Errorf("expected non-retryable decode error, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d <= 0 || d > 15*time.Second {
			t.Errorf("Backoff(%d) = %v out of range", attempt, d)
		}
	}
}
