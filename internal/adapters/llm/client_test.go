package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"travel_planner/internal/adapters/llm"
	"travel_planner/internal/domain"
)

// fakeOpenAI answers /v1/chat/completions with whatever respond returns for the nth call.
func fakeOpenAI(t *testing.T, respond func(n int32, body map[string]any) (int, string)) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		status, content := respond(atomic.AddInt32(&hits, 1), body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-3.5-turbo",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(ts.Close)
	return ts, &hits
}

func newClient(t *testing.T, base string, retries int, failures uint32) *llm.Client {
	t.Helper()
	cl, err := llm.New("test-key", llm.Options{
		BaseURL:         base + "/v1",
		RPS:             100,
		MaxRetries:      retries,
		BaseBackoff:     time.Millisecond,
		BreakerFailures: failures,
		BreakerCooldown: time.Hour,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return cl
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := llm.New("", llm.Options{}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestClassify_ParsesJSONVerdict(t *testing.T) {
	ts, _ := fakeOpenAI(t, func(_ int32, body map[string]any) (int, string) {
		rf, _ := body["response_format"].(map[string]any)
		if rf["type"] != "json_object" {
			t.Errorf("expected json_object response format, got %v", body["response_format"])
		}
		return http.StatusOK, `{"sentiment":"Positive","score":0.91}`
	})
	cl := newClient(t, ts.URL, 0, 5)

	got, err := cl.Classify(context.Background(), "Wonderful views at sunset")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Label != domain.SentimentPositive || got.Score != 0.91 {
		t.Fatalf("unexpected classification: %+v", got)
	}
}

func TestClassify_RejectsGarbage(t *testing.T) {
	for _, content := range []string{`not json`, `{"sentiment":"ecstatic","score":0.9}`, `{"sentiment":"negative","score":7}`} {
		ts, _ := fakeOpenAI(t, func(int32, map[string]any) (int, string) { return http.StatusOK, content })
		cl := newClient(t, ts.URL, 0, 5)
		if _, err := cl.Classify(context.Background(), "meh"); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}

func TestSummarize_SendsEveryReview(t *testing.T) {
	ts, _ := fakeOpenAI(t, func(_ int32, body map[string]any) (int, string) {
		msgs, _ := body["messages"].([]any)
		first, _ := msgs[0].(map[string]any)
		prompt, _ := first["content"].(string)
		if !strings.Contains(prompt, "Great tower") || !strings.Contains(prompt, "Long queues") {
			t.Errorf("prompt is missing reviews: %q", prompt)
		}
		return http.StatusOK, "Visitors love the views but warn about queues."
	})
	cl := newClient(t, ts.URL, 0, 5)

	got, err := cl.Summarize(context.Background(), []string{"Great tower", "Long queues"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "Visitors love the views but warn about queues." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestSummarize_EmptyAnswerFallsBack(t *testing.T) {
	ts, _ := fakeOpenAI(t, func(int32, map[string]any) (int, string) { return http.StatusOK, "  " })
	cl := newClient(t, ts.URL, 0, 5)

	got, err := cl.Summarize(context.Background(), []string{"ok"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "No summary available" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestComplete_RetriesTransientThenSucceeds(t *testing.T) {
	ts, hits := fakeOpenAI(t, func(n int32, _ map[string]any) (int, string) {
		if n <= 2 {
			return http.StatusServiceUnavailable, ""
		}
		return http.StatusOK, "fine"
	})
	cl := newClient(t, ts.URL, 3, 5)

	got, err := cl.Summarize(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "fine" || atomic.LoadInt32(hits) != 3 {
		t.Fatalf("got %q after %d calls", got, atomic.LoadInt32(hits))
	}
}

func TestComplete_DoesNotRetryClientErrors(t *testing.T) {
	ts, hits := fakeOpenAI(t, func(int32, map[string]any) (int, string) { return http.StatusBadRequest, "" })
	cl := newClient(t, ts.URL, 3, 5)

	if _, err := cl.Summarize(context.Background(), []string{"x"}); err == nil {
		t.Fatalf("expected error")
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Fatalf("expected a single call, got %d", n)
	}
}

func TestComplete_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	ts, hits := fakeOpenAI(t, func(int32, map[string]any) (int, string) { return http.StatusInternalServerError, "" })
	cl := newClient(t, ts.URL, 0, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := cl.Summarize(ctx, []string{"x"}); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	_, err := cl.Summarize(ctx, []string{"x"})
	if err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if n := atomic.LoadInt32(hits); n != 2 {
		t.Fatalf("open breaker must not reach the server, got %d calls", n)
	}
}

func TestComplete_HonoursContext(t *testing.T) {
	ts, _ := fakeOpenAI(t, func(int32, map[string]any) (int, string) { return http.StatusServiceUnavailable, "" })
	cl := newClient(t, ts.URL, 10, 50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cl.Summarize(ctx, []string{"x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestComplete_CancelledCallsDoNotOpenBreaker(t *testing.T) {
	ts, hits := fakeOpenAI(t, func(int32, map[string]any) (int, string) { return http.StatusOK, "fine" })
	cl := newClient(t, ts.URL, 0, 1)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		if _, err := cl.Summarize(cancelled, []string{"x"}); !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: expected context.Canceled, got %v", i, err)
		}
	}
	expired, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	<-expired.Done()
	if _, err := cl.Summarize(expired, []string{"x"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	got, err := cl.Summarize(context.Background(), []string{"x"})
	if err != nil || got != "fine" {
		t.Fatalf("breaker should still be closed, got %q, %v", got, err)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Fatalf("expected only the live call to reach the server, got %d", n)
	}
}

func TestComplete_BreakersAreIndependentPerOperation(t *testing.T) {
	ts, _ := fakeOpenAI(t, func(_ int32, body map[string]any) (int, string) {
		if body["response_format"] != nil {
			return http.StatusInternalServerError, ""
		}
		return http.StatusOK, "summary"
	})
	cl := newClient(t, ts.URL, 0, 2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cl.Classify(ctx, "x"); err == nil {
			t.Fatalf("classify %d: expected error", i)
		}
	}
	if _, err := cl.Classify(ctx, "x"); err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Fatalf("expected classify breaker open, got %v", err)
	}
	got, err := cl.Summarize(ctx, []string{"x"})
	if err != nil || got != "summary" {
		t.Fatalf("summarize should not be blocked by classify failures, got %q, %v", got, err)
	}
}
