// Package insight calls an OpenAI-compatible chat API to produce narrative
// analysis over serialized barangay data. The service is treated as opaque,
// slow and fallible: short timeout, a couple of retries, and errors surface
// as a single wrapped failure the handler maps to 502.
package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrEmptyCompletion is returned when the API answers 200 with no choices.
var ErrEmptyCompletion = errors.New("insight service returned no completion")

const systemPrompt = "You are an analyst for a Philippine barangay office. " +
	"Answer using only the JSON dataset provided; be concise and concrete, " +
	"and never invent residents or requests that are not in the data."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client is a thin wrapper over the chat-completions endpoint.
type Client struct {
	http   *resty.Client
	model  string
	logger *zap.Logger
}

// NewClient configures the HTTP client. baseURL is the API root (the
// /chat/completions path is appended per call).
func NewClient(baseURL, apiKey, model string, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(45 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		http.SetAuthToken(apiKey)
	}
	return &Client{http: http, model: model, logger: logger}
}

// Generate sends the staff prompt together with the serialized dataset and
// returns the model's text.
func (c *Client) Generate(ctx context.Context, prompt, datasetJSON string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Dataset:\n" + datasetJSON + "\n\nQuestion: " + prompt},
		},
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		c.logger.Error("insight call failed", zap.Error(err))
		return "", fmt.Errorf("insight service: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		c.logger.Error("insight service error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", msg),
		)
		return "", fmt.Errorf("insight service: %s", msg)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	c.logger.Info("insight generated",
		zap.Int("prompt_len", len(prompt)),
		zap.Int("answer_len", len(out.Choices[0].Message.Content)),
	)
	return out.Choices[0].Message.Content, nil
}
