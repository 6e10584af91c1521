package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// OpenAICompatSummarizer calls any OpenAI-compatible chat-completions
// endpoint. Responses are cached briefly so repeated analyze clicks on an
// unchanged schedule do not burn tokens.
type OpenAICompatSummarizer struct {
	BaseURL   string
	Model     string
	APIKey    string
	MaxTokens int
}

const systemPrompt = "You are a senior technical program manager specializing in agile resource allocation."

var (
	cacheMu    sync.Mutex
	cacheStore = map[string]cacheEntry{}
	cacheTTL   = 60 * time.Second
)

type cacheEntry struct {
	value string
	exp   time.Time
}

type RateLimitError struct {
	RetryAfter time.Duration
}

func (r RateLimitError) Error() string {
	if r.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", r.RetryAfter)
	}
	return "rate limited"
}

func (a OpenAICompatSummarizer) AnalyzeSchedule(ctx context.Context, payload SchedulePayload) (string, error) {
	if strings.TrimSpace(a.BaseURL) == "" {
		return "", fmt.Errorf("SUMMARIZER_BASE_URL is not set")
	}
	if strings.TrimSpace(a.Model) == "" {
		return "", fmt.Errorf("SUMMARIZER_MODEL is not set")
	}

	data, _ := json.Marshal(payload)
	prompt := fmt.Sprintf(`Analyze the following developer schedule and resource allocation data.
Identify potential bottlenecks, overbooked developers, or underutilized resources.
Suggest specific actions to optimize the workflow.

Data:
%s

Please provide a concise, bulleted list of insights and recommendations.
Format the output as Markdown.`, data)

	if v, ok := cacheGet(prompt); ok {
		return v, nil
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	body := struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
		Messages    []msg   `json:"messages"`
	}{
		Model:       a.Model,
		Temperature: 0.3,
		MaxTokens:   a.MaxTokens,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	b, _ := json.Marshal(body)
	url := strings.TrimRight(a.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(a.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+a.APIKey)
	}

	timeout := 45 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("summarizer request timed out")
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("summarizer request timed out")
		}
		return "", fmt.Errorf("summarizer request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", RateLimitError{RetryAfter: retryAfter}
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("summarizer error status=%d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("summarizer returned no choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("summarizer returned empty content")
	}
	cacheSet(prompt, text)
	return text, nil
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func cacheGet(key string) (string, bool) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	e, ok := cacheStore[key]
	if !ok || time.Now().After(e.exp) {
		return "", false
	}
	return e.value, true
}

func cacheSet(key, value string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cacheStore[key] = cacheEntry{value: value, exp: time.Now().Add(cacheTTL)}
}
