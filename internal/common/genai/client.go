// Package genai is the transport client for the chat-completion reasoning
// service (Groq's OpenAI-compatible API).
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"skillconnect/internal/common/errors"
	commonhttp "skillconnect/internal/common/http"
	"skillconnect/internal/common/logger"
)

const ServiceName = "groq"

// Config carries the environment-supplied connection settings. It is
// injected at construction; nothing here is read ad hoc from the process
// environment.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type Client struct {
	config Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewClient(config Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: commonhttp.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"service": ServiceName}),
	}
}

// Complete sends one free-form instruction-following request and returns the
// unparsed content of the first choice. Transport failures, timeouts and
// non-2xx statuses propagate as hard errors; parsing the content is the
// caller's concern.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewExternalServiceError(ServiceName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewAITimeoutError()
		}
		return "", errors.NewExternalServiceError(ServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("chat completion returned non-OK status", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(respBody),
		})
		return "", errors.NewExternalServiceError(ServiceName, fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.NewExternalServiceError(ServiceName, fmt.Errorf("decode response: %w", err))
	}

	if len(parsed.Choices) == 0 {
		return "", errors.NewExternalServiceError(ServiceName, fmt.Errorf("no choices in response"))
	}

	return parsed.Choices[0].Message.Content, nil
}
