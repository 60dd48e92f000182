// Package gemini implements invoice extraction against Google's Gemini API.
package gemini

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

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Extractor implements port.InvoiceExtractor using the Gemini
// generateContent API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a Gemini-based invoice extractor.
func NewExtractor(cfg *config.ExtractConfig) *Extractor {
	return newExtractor(cfg, "")
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API
// endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ExtractConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ExtractConfig, endpoint string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.InvoiceData, error) {
	mimeType, err := extract.ToDocumentMimeType(input.ContentType)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      encoded,
						},
					},
					{
						"text": extract.BuildInvoicePrompt(),
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  8192,
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
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := extract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, extract.NewRateLimitError("gemini", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte) (*domain.InvoiceData, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API: no parts")
	}

	text := resp.Candidates[0].Content.Parts[0].Text

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
