package dto

import (
	"errors"

	"github.com/candrapwr/information-extraction/utils"
)

// Custom errors
var (
	ErrEmptyDocument       = errors.New("document is empty")
	ErrUnsupportedDocType  = errors.New("unsupported document type")
	ErrUnsupportedProvider = errors.New("unsupported OCR provider")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ExtractResponse is the result of one extraction.
type ExtractResponse struct {
	Status    string         `json:"status"`
	Data      utils.Result   `json:"data"`
	Valid     bool           `json:"valid"`
	DocType   DocumentType   `json:"doc_type"`
	Source    Source         `json:"source"`
	Provider  string         `json:"provider,omitempty"`
	Usage     map[string]any `json:"usage,omitempty"`
	Timestamp string         `json:"timestamp"`
}
