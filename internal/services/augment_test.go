package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/whisperlink/whisperlink-backend/internal/config"
)

func newTestService(baseURL, apiKey string, timeout time.Duration) *TogetherService {
	return NewTogetherService(&config.Config{
		TogetherAPIKey:  apiKey,
		TogetherModel:   "test-model",
		TogetherBaseURL: baseURL,
		TogetherTimeout: timeout,
	})
}

func TestGenerateFeedback_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"choices":[{"message":{"content":"  Polished feedback text.  "}}]}`))
	}))
	defer srv.Close()

	svc := newTestService(srv.URL, "test-key", 5*time.Second)
	got := svc.GenerateFeedback(context.Background(), "u did good", "alice")
	assert.Equal(t, "Polished feedback text.", got)
}

func TestGenerateFeedback_PromptMentionsRecipient(t *testing.T) {
	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		body.Store(string(buf))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	svc := newTestService(srv.URL, "test-key", 5*time.Second)
	svc.GenerateFeedback(context.Background(), "raw thoughts", "bob")

	sent, _ := body.Load().(string)
	assert.Contains(t, sent, "bob")
	assert.Contains(t, sent, "raw thoughts")
	assert.Contains(t, sent, `"model":"test-model"`)
}

func TestGenerateFeedback_NoAPIKey(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	for _, key := range []string{"", config.TogetherPlaceholderKey} {
		svc := newTestService(srv.URL, key, 5*time.Second)
		got := svc.GenerateFeedback(context.Background(), "raw input", "alice")
		assert.Equal(t, "raw input", got)
	}
	assert.Equal(t, int32(0), hits.Load(), "adapter must not call upstream without a real key")
}

func TestGenerateFeedback_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newTestService(srv.URL, "test-key", 5*time.Second)
	got := svc.GenerateFeedback(context.Background(), "raw input", "alice")
	assert.Equal(t, "raw input", got)
}

func TestGenerateFeedback_MalformedResponse(t *testing.T) {
	for _, payload := range []string{
		`not json at all`,
		`{"choices":[]}`,
		`{"choices":[{"message":{"content":"   "}}]}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		}))

		svc := newTestService(srv.URL, "test-key", 5*time.Second)
		got := svc.GenerateFeedback(context.Background(), "raw input", "alice")
		assert.Equal(t, "raw input", got, "payload %q must fall back", payload)
		srv.Close()
	}
}

func TestGenerateFeedback_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"choices":[{"message":{"content":"too late"}}]}`))
	}))
	defer srv.Close()

	svc := newTestService(srv.URL, "test-key", 50*time.Millisecond)
	start := time.Now()
	got := svc.GenerateFeedback(context.Background(), "raw input", "alice")
	assert.Equal(t, "raw input", got)
	assert.Less(t, time.Since(start), 250*time.Millisecond, "timeout must cut the request short")
}

func TestGenerateFeedback_UnreachableEndpoint(t *testing.T) {
	svc := newTestService("http://127.0.0.1:1", "test-key", time.Second)
	got := svc.GenerateFeedback(context.Background(), "raw input", "alice")
	assert.Equal(t, "raw input", got)
}

func TestBuildAugmentPrompt(t *testing.T) {
	prompt := buildAugmentPrompt("be more direct", "carol")
	assert.Contains(t, prompt, "carol")
	assert.Contains(t, prompt, `"be more direct"`)
	for _, section := range []string{"Positive Recognition", "Specific Observations", "Impact Statement", "Growth Opportunities", "Encouragement"} {
		assert.True(t, strings.Contains(prompt, section), "prompt missing section %q", section)
	}
}
