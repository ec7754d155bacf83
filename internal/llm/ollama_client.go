package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultOllamaModel = "mistral"

// OllamaClient implements LLMClient against a local Ollama /api/generate endpoint.
type OllamaClient struct {
	ollamaURL   string
	model       string
	temperature float64
	client      *http.Client
}

func NewOllamaClient(url, model string, temperature float64) *OllamaClient {
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaClient{
		ollamaURL:   url,
		model:       model,
		temperature: temperature,
		client: &http.Client{
			Timeout: 600 * time.Second, // upper bound; per-call deadlines come from ctx
		},
	}
}

func (o *OllamaClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model":   o.model,
		"prompt":  prompt,
		"options": map[string]interface{}{"temperature": o.temperature},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.ollamaURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &ErrProviderUnavailable{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ErrProviderUnavailable{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &ErrRateLimit{Err: fmt.Errorf("ollama: %s", resp.Status)}
	case resp.StatusCode >= 300:
		return "", &ErrProviderUnavailable{Err: fmt.Errorf("ollama: %s: %s", resp.Status, strings.TrimSpace(string(bodyBytes)))}
	}

	fullBody := strings.TrimSpace(string(bodyBytes))

	// Streamed responses arrive as newline separated JSON objects.
	if strings.Contains(fullBody, "\n") {
		return AggregateStreamedResponse(fullBody)
	}

	var chunk ollamaChunk
	if err := json.Unmarshal([]byte(fullBody), &chunk); err != nil {
		return "", &ErrInvalidResponse{Body: fullBody, Err: err}
	}
	if chunk.Response == "" && !chunk.Done {
		return "", &ErrInvalidResponse{Body: fullBody, Err: errors.New("missing response field")}
	}
	return chunk.Response, nil
}

func (o *OllamaClient) ModelID() string {
	return o.model
}

type ollamaChunk struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// AggregateStreamedResponse concatenates the "response" fields of a
// newline-delimited stream of Ollama chunks.
func AggregateStreamedResponse(body string) (string, error) {
	var builder strings.Builder
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var chunk ollamaChunk
		if err := json.Unmarshal([]byte(trimmed), &chunk); err != nil {
			return "", &ErrInvalidResponse{Body: body, Err: fmt.Errorf("decode chunk: %w", err)}
		}
		builder.WriteString(chunk.Response)
	}
	return builder.String(), nil
}
