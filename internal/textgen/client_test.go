package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "keep going"}},
			},
			"usage": map[string]uint64{"prompt_tokens": 12, "completion_tokens": 5},
		})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "k-123", Model: "gpt-4o-mini"})
	text, usage, err := c.Generate(context.Background(), "how did I do today")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "keep going" {
		t.Fatalf("text = %q", text)
	}
	if usage.PromptUnits != 12 || usage.CompletionUnits != 5 {
		t.Fatalf("usage = %+v", usage)
	}
	if gotAuth != "Bearer k-123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotModel != "gpt-4o-mini" {
		t.Fatalf("model = %q", gotModel)
	}
}

func TestGenerate_ServerErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Model: "m"})
	_, _, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGenerate_EmptyCompletionIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Model: "m"})
	_, _, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestGenerate_ConnectionRefusedIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse further connections

	c := New(Config{BaseURL: srv.URL, Model: "m"})
	_, _, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
