package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartinvoice/internal/config"
	"smartinvoice/internal/domain"
	"smartinvoice/internal/extract"
	"smartinvoice/internal/extract/claude"
	"smartinvoice/internal/port"
)

const invoiceJSON = `{"vendorName":"Acme Corp","invoiceNumber":"INV-001","date":"2024-03-15","currency":"USD","subtotal":25.50,"tax":2.00,"totalAmount":27.50,"paymentMethod":"Credit Card","category":"Office Supplies","lineItems":[{"description":"Widget","quantity":2,"unitPrice":10.00,"total":20.00}],"confidenceLevel":"High","aiNotes":""}`

func newTestExtractor(serverURL string) *claude.Extractor {
	cfg := &config.ExtractConfig{
		Provider:    "claude",
		APIKey:      "test-claude-key",
		TimeoutSecs: 30,
	}
	return claude.NewExtractorWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"stop_reason": "end_turn",
	}
}

func TestExtract_PDF_UsesDocumentBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		blocks := messages[0].(map[string]interface{})["content"].([]interface{})
		require.Len(t, blocks, 2)

		docBlock := blocks[0].(map[string]interface{})
		assert.Equal(t, "document", docBlock["type"])
		source := docBlock["source"].(map[string]interface{})
		assert.Equal(t, "base64", source["type"])
		assert.Equal(t, "application/pdf", source["media_type"])

		textBlock := blocks[1].(map[string]interface{})
		assert.Equal(t, "text", textBlock["type"])
		assert.NotEmpty(t, textBlock["text"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successResponse(invoiceJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	data, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4 fake"),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", data.VendorName)
	assert.Equal(t, domain.ConfidenceHigh, data.ConfidenceLevel)
}

func TestExtract_PNG_UsesImageBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		messages := reqBody["messages"].([]interface{})
		blocks := messages[0].(map[string]interface{})["content"].([]interface{})
		imgBlock := blocks[0].(map[string]interface{})
		assert.Equal(t, "image", imgBlock["type"])
		source := imgBlock["source"].(map[string]interface{})
		assert.Equal(t, "image/png", source["media_type"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(successResponse(invoiceJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte{0x89, 0x50, 0x4E, 0x47},
		ContentType: "image/png",
	})
	require.NoError(t, err)
}

func TestExtract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "45")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4 fake"),
		ContentType: "application/pdf",
	})
	require.Error(t, err)

	var rlErr *extract.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, "45s", rlErr.RetryAfter.String())
}

func TestExtract_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := successResponse(invoiceJSON)
		resp["stop_reason"] = "max_tokens"
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("%PDF-1.4 fake"),
		ContentType: "application/pdf",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}
