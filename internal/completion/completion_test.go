package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestOpenAIService_New_Defaults(t *testing.T) {
	svc := NewOpenAIService("", "key", "", "", 0)

	if svc.Name() != "groq" {
		t.Errorf("expected name 'groq', got %q", svc.Name())
	}
	if svc.baseURL != GroqBaseURL {
		t.Errorf("expected Groq base URL, got %q", svc.baseURL)
	}
	if svc.Model() != DefaultModel {
		t.Errorf("expected default model, got %q", svc.Model())
	}
	if svc.client.Timeout != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", svc.client.Timeout)
	}
}

func TestOpenAIService_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama-3.1-8b-instant" {
			t.Errorf("expected default model, got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}
		if req.Messages[1].Content != "Explain angles" {
			t.Errorf("unexpected user prompt %q", req.Messages[1].Content)
		}
		if req.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", req.Temperature)
		}
		if req.MaxTokens != 2000 {
			t.Errorf("expected max_tokens 2000, got %d", req.MaxTokens)
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"{\"explanation\":\"ok\"}"}}]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService("groq", "secret", server.URL, "", time.Second)

	got, err := svc.Complete(context.Background(), Request{
		SystemRole:  "You are a tutor.",
		UserPrompt:  "Explain angles",
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"explanation":"ok"}` {
		t.Errorf("unexpected content %q", got)
	}
}

func TestOpenAIService_Complete_ModelOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "override" {
			t.Errorf("expected model override, got %q", req.Model)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService("openai", "secret", server.URL, "base", time.Second)
	if _, err := svc.Complete(context.Background(), Request{Model: "override"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenAIService_Complete_NoAPIKey(t *testing.T) {
	svc := NewOpenAIService("groq", "", "http://127.0.0.1:0", "", time.Second)

	_, err := svc.Complete(context.Background(), Request{UserPrompt: "hi"})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Service != "groq" {
		t.Errorf("expected service 'groq', got %q", te.Service)
	}
}

func TestOpenAIService_Complete_StatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"nope"}}`))
		}))

		svc := NewOpenAIService("groq", "secret", server.URL, "", time.Second)
		_, err := svc.Complete(context.Background(), Request{UserPrompt: "hi"})
		server.Close()

		var te *TransportError
		if !errors.As(err, &te) {
			t.Fatalf("status %d: expected TransportError, got %v", status, err)
		}
		if te.StatusCode != status {
			t.Errorf("expected status %d, got %d", status, te.StatusCode)
		}
		if !strings.Contains(te.Error(), "nope") {
			t.Errorf("expected API error body in message, got %q", te.Error())
		}
	}
}

func TestOpenAIService_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService("groq", "secret", server.URL, "", time.Second)
	_, err := svc.Complete(context.Background(), Request{UserPrompt: "hi"})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestOpenAIService_Complete_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	svc := NewOpenAIService("groq", "secret", url, "", time.Second)
	_, err := svc.Complete(context.Background(), Request{UserPrompt: "hi"})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("expected no status code, got %d", te.StatusCode)
	}
}

func TestOllamaService_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var req ollamaRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Model != "llama3.2" {
			t.Errorf("expected model 'llama3.2', got %q", req.Model)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}
		if req.Options.Temperature != 0.3 {
			t.Errorf("expected temperature 0.3, got %v", req.Options.Temperature)
		}
		if req.Options.NumPredict != 1000 {
			t.Errorf("expected num_predict 1000, got %d", req.Options.NumPredict)
		}

		resp := ollamaResponse{}
		resp.Message.Content = `{"status":"pass","feedback":[]}`
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "llama3.2", time.Second)

	got, err := svc.Complete(context.Background(), Request{
		SystemRole:  "You are a reviewer.",
		UserPrompt:  "Review this",
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"status":"pass","feedback":[]}` {
		t.Errorf("unexpected content %q", got)
	}
}

func TestOllamaService_Complete_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "", time.Second)
	_, err := svc.Complete(context.Background(), Request{})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", te.StatusCode)
	}
}

func TestOllamaService_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "", time.Second)
	if err := svc.IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFunc(t *testing.T) {
	var f Service = Func(func(ctx context.Context, req Request) (string, error) {
		return strings.ToUpper(req.UserPrompt), nil
	})

	got, err := f.Complete(context.Background(), Request{UserPrompt: "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ABC" {
		t.Errorf("expected 'ABC', got %q", got)
	}
}

func TestServiceInterface(t *testing.T) {
	var _ Service = (*OpenAIService)(nil)
	var _ Service = (*OllamaService)(nil)
}
