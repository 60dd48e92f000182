// Package claude implements invoice extraction against the Anthropic
// Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"smartinvoice/internal/config"
	"smartinvoice/internal/domain"
	"smartinvoice/internal/extract"
	"smartinvoice/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Extractor implements port.InvoiceExtractor using the Anthropic Messages API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a Claude-based invoice extractor.
func NewExtractor(cfg *config.ExtractConfig) *Extractor {
	return newExtractor(cfg, apiURL)
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API
// endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ExtractConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ExtractConfig, endpoint string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.InvoiceData, error) {
	contentBlocks, err := buildContentBlocks(input)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":      e.model,
		"max_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extract.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

func buildContentBlocks(input port.ExtractInput) ([]map[string]interface{}, error) {
	mimeType, err := extract.ToDocumentMimeType(input.ContentType)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
	var blocks []map[string]interface{}

	blockType := "image"
	if mimeType == "application/pdf" {
		blockType = "document"
	}
	blocks = append(blocks, map[string]interface{}{
		"type": blockType,
		"source": map[string]interface{}{
			"type":       "base64",
			"media_type": mimeType,
			"data":       encoded,
		},
	})

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": extract.BuildInvoicePrompt(),
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (*domain.InvoiceData, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	text := resp.Content[0].Text

	data, err := extract.DecodeInvoiceData([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("decoding LLM JSON output: %w (raw: %s)", err, truncate(text, 500))
	}
	return data, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
