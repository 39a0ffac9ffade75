package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookNotifier(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	if err := n.Notify(context.Background(), "total 600, average 300.0"); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if received["text"] != "total 600, average 300.0" {
		t.Errorf("unexpected payload text: %q", received["text"])
	}
}

func TestWebhookNotifierNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	err := n.Notify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("expected status in error, got: %v", err)
	}
}

func TestWebhookNotifierEmptyURL(t *testing.T) {
	n := &WebhookNotifier{}
	if err := n.Notify(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for missing URL")
	}
}

type errorTransport struct{}

func (errorTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, io.ErrUnexpectedEOF
}

func TestWebhookNotifierTransportError(t *testing.T) {
	n := &WebhookNotifier{
		URL:    "http://example.invalid/hook",
		Client: &http.Client{Transport: errorTransport{}},
	}

	err := n.Notify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(err.Error(), "failed to send webhook notification") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWebhookNotifierNilClientFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := &WebhookNotifier{URL: server.URL}
	if err := n.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
}
