package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini", time.Minute); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("sk-test", "", time.Minute); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestStreamGenerateParsesSSEChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{}}]}\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("sk-test", "gpt-4o-mini", time.Minute)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = server.URL

	stream, err := client.StreamGenerate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("stream generate: %v", err)
	}
	t.Cleanup(func() { _ = stream.Close() })

	var got string
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		got += fragment
	}
	if got != "Hello world" {
		t.Fatalf("unexpected assembled text %q", got)
	}
}

func TestStreamGenerateSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("sk-bad", "gpt-4o-mini", time.Minute)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = server.URL

	if _, err := client.StreamGenerate(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error from 401 response")
	}
}

func TestRecvReportsMidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		io.WriteString(w, "data: {\"error\":{\"message\":\"server overloaded\",\"type\":\"server_error\"}}\n\n")
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("sk-test", "gpt-4o-mini", time.Minute)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = server.URL

	stream, err := client.StreamGenerate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("stream generate: %v", err)
	}
	t.Cleanup(func() { _ = stream.Close() })

	fragment, err := stream.Recv()
	if err != nil || fragment != "partial" {
		t.Fatalf("expected first fragment, got %q err=%v", fragment, err)
	}

	if _, err := stream.Recv(); err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected terminal error, got %v", err)
	}
}
