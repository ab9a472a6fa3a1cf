// Package ai 对接上游生成式模型（OpenAI chat completions 协议），
// 产出结构化书目推荐。不重试、不缓存，一次调用一个请求。
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"book-catalog/internal/core/apperr"
)

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpc       *http.Client
}

type ClientOpts struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func NewClient(o ClientOpts) *Client {
	return &Client{
		baseURL:     o.BaseURL,
		apiKey:      o.APIKey,
		model:       o.Model,
		maxTokens:   o.MaxTokens,
		temperature: o.Temperature,
		httpc:       &http.Client{Timeout: o.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete 单轮对话，返回首个 choice 的文本
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", apperr.Internal("encode upstream request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperr.Internal("build upstream request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", apperr.Upstream("AI service unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperr.Upstream("read AI response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := upstreamMessage(raw)
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", apperr.RateLimited(msg)
		}
		return "", apperr.Upstream(msg, fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", apperr.UpstreamParse("failed to parse AI response", err)
	}
	if len(cr.Choices) == 0 {
		return "", apperr.UpstreamParse("AI response contains no choices", nil)
	}
	return cr.Choices[0].Message.Content, nil
}

func upstreamMessage(raw []byte) string {
	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err == nil && cr.Error != nil && cr.Error.Message != "" {
		return "OpenAI API error: " + cr.Error.Message
	}
	return "OpenAI API error"
}
