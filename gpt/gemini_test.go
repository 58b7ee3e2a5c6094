package gpt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	if err != nil {
		t.Fatalf("genai.NewClient error: %v", err)
	}
	return &Gemini{Client: client, Model: "script-model"}
}

func TestGemini_WriteScript(t *testing.T) {
	var body, path string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Welcome to "},{"text":"the briefing.\n"}]},"finishReason":"STOP"}]}`))
	})

	script, err := g.WriteScript(context.Background(), "GOOG beat earnings.", []string{"GOOG"})
	if err != nil {
		t.Fatalf("WriteScript error: %v", err)
	}
	if script != "Welcome to the briefing." {
		t.Errorf("script = %q", script)
	}
	if !strings.HasSuffix(path, "/models/script-model:generateContent") {
		t.Errorf("path = %q", path)
	}
	for _, want := range []string{"systemInstruction", "daily market briefing podcast", "GOOG beat earnings."} {
		if !strings.Contains(body, want) {
			t.Errorf("request missing %q: %s", want, body)
		}
	}
}

func TestGemini_WriteScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			name:   "api error",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`,
			want:   "API key not valid",
		},
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `{"candidates":[]}`,
			want:   "no candidates",
		},
		{
			name:   "safety stop",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"parts":[{"text":"partial"}]},"finishReason":"SAFETY"}]}`,
			want:   "unexpected finish reason: SAFETY",
		},
		{
			name:   "empty script",
			status: http.StatusOK,
			body:   `{"candidates":[{"content":{"parts":[{"text":"\n"}]},"finishReason":"STOP"}]}`,
			want:   "model returned an empty script",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			_, err := g.WriteScript(context.Background(), "notes", []string{"GOOG"})
			if err == nil || err.Error() != tc.want {
				t.Errorf("error = %v; want %q", err, tc.want)
			}
		})
	}
}
