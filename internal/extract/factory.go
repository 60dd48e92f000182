package extract

import (
	"fmt"

	"smartinvoice/internal/config"
	"smartinvoice/internal/port"
)

// ProviderFactory is a function that creates an InvoiceExtractor from an
// extraction config.
type ProviderFactory func(cfg *config.ExtractConfig) (port.InvoiceExtractor, error)

// registry of extraction provider factories, populated explicitly via
// RegisterProvider (cmd/server wires the built-in providers).
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an InvoiceExtractor from the config using the
// registered factory for its provider.
func NewExtractor(cfg *config.ExtractConfig) (port.InvoiceExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// ToDocumentMimeType validates that a content type is one the extraction
// providers accept.
func ToDocumentMimeType(contentType string) (string, error) {
	switch contentType {
	case "application/pdf", "image/jpeg", "image/png":
		return contentType, nil
	default:
		return "", fmt.Errorf("unsupported content type for extraction: %s", contentType)
	}
}
