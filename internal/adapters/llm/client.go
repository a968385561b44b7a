// Package llm talks to an OpenAI-compatible chat completions API for review sentiment and summaries.
package llm

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

const noSummary = "No summary available"

type Options struct {
	BaseURL     string // empty = api.openai.com
	Model       string
	RPS         int
	MaxRetries  int
	BaseBackoff time.Duration
	// Each operation's breaker opens after this many consecutive failed calls and half-opens
	// after BreakerCooldown. Calls the caller cancelled do not count as failures.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type Client struct {
	api     *openai.Client
	model   string
	rl      *rate.Limiter
	cbs     map[string]*gobreaker.CircuitBreaker
	retries int
	backoff time.Duration
}

func New(key string, o Options) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if o.Model == "" {
		o.Model = openai.GPT3Dot5Turbo
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = 200 * time.Millisecond
	}
	if o.BreakerFailures == 0 {
		o.BreakerFailures = 5
	}
	if o.BreakerCooldown <= 0 {
		o.BreakerCooldown = 30 * time.Second
	}

	cfg := openai.DefaultConfig(key)
	if o.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.BaseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 20 * time.Second}

	cbs := make(map[string]*gobreaker.CircuitBreaker, len(ops))
	for _, op := range ops {
		cbs[op] = newBreaker("llm-"+op, o.BreakerFailures, o.BreakerCooldown)
	}
	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   o.Model,
		rl:      rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		cbs:     cbs,
		retries: o.MaxRetries,
		backoff: o.BaseBackoff,
	}, nil
}

const (
	opClassify  = "classify"
	opSummarize = "summarize"
)

var ops = []string{opClassify, opSummarize}

func newBreaker(name string, failures uint32, cooldown time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  1,
		Timeout:      cooldown,
		ReadyToTrip:  func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= failures },
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

// upstreamHealthy reports whether err says nothing bad about the API: a caller that gave up
// or ran out of time is not an upstream failure.
func upstreamHealthy(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Classify asks for a {"sentiment","score"} JSON verdict on one review.
func (c *Client) Classify(ctx context.Context, text string) (domain.Classification, error) {
	prompt := fmt.Sprintf(`Analyze the sentiment of this travel review and provide a score from 0 to 1:

Review: %s

Respond in JSON format:
{
  "sentiment": "positive|negative|neutral",
  "score": 0.0 to 1.0
}`, text)

	content, err := c.complete(ctx, opClassify, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: math.SmallestNonzeroFloat32, // zero is dropped by omitempty
		MaxTokens:   100,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return domain.Classification{}, err
	}
	return parseClassification(content)
}

// Summarize condenses every review of an attraction into one short prose summary.
func (c *Client) Summarize(ctx context.Context, reviews []string) (string, error) {
	prompt := fmt.Sprintf(`Analyze and summarize these travel reviews. Focus on:
- Overall sentiment
- Key highlights
- Common complaints
- Best times to visit
- Tips for visitors

Reviews:
%s

Please provide a concise, well-structured summary.`, strings.Join(reviews, "\n"))

	content, err := c.complete(ctx, opSummarize, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return noSummary, nil
	}
	return content, nil
}

func parseClassification(content string) (domain.Classification, error) {
	var raw struct {
		Sentiment string  `json:"sentiment"`
		Score     float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return domain.Classification{}, fmt.Errorf("decode sentiment: %w", err)
	}
	out := domain.Classification{
		Label: domain.SentimentLabel(strings.ToLower(strings.TrimSpace(raw.Sentiment))),
		Score: raw.Score,
	}
	if err := out.Validate(); err != nil {
		return domain.Classification{}, err
	}
	return out, nil
}

// complete runs one chat completion through the op's breaker, the rate limiter and the retry loop.
func (c *Client) complete(ctx context.Context, op string, req openai.ChatCompletionRequest) (string, error) {
	start := time.Now()
	v, err := c.cbs[op].Execute(func() (interface{}, error) {
		return c.completeWithRetry(ctx, req)
	})
	status := http.StatusOK
	if err != nil {
		status = statusOf(err)
		log.Warn().Err(err).Str("op", op).Str("err_type", observability.LabelErr(err)).Msg("llm request failed")
	}
	observability.ObserveExternal("openai", op, status, time.Since(start))
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// completeWithRetry retries 429 and transient 5xx/network errors with jittered exponential backoff.
func (c *Client) completeWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	var lastErr error
	for i := 0; i <= c.retries; i++ {
		if err := c.rl.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			// the limiter refuses a wait that would outlast the deadline
			return "", fmt.Errorf("%v: %w", err, context.DeadlineExceeded)
		}
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", nil
			}
			return resp.Choices[0].Message.Content, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		if !retryable(err) || i == c.retries {
			break
		}
		if !sleepCtx(ctx, backoff(c.backoff, i)) {
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return http.StatusServiceUnavailable
	}
	return 0
}

func retryable(err error) bool {
	switch s := statusOf(err); {
	case s == 0:
		return true // network
	case s == http.StatusTooManyRequests:
		return true
	case s >= 500:
		return true
	}
	return false
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff doubles base per attempt and adds up to +50% jitter.
func backoff(base time.Duration, i int) time.Duration {
	d := time.Duration(1<<i) * base
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return d
	}
	f := float64(b[0]) / 255.0
	return d + time.Duration(0.5*f*float64(d))
}
