package dto

import (
	"mime/multipart"
	"strings"
)

// ExtractUploadRequest is the multipart form of POST /api/v1/extract.
type ExtractUploadRequest struct {
	File     *multipart.FileHeader `form:"file" binding:"required"`
	Type     string                `form:"type"`
	Provider string                `form:"provider"`
}

// ExtractTextRequest is the JSON body of POST /api/v1/extract/text.
type ExtractTextRequest struct {
	Text string `json:"text" binding:"required"`
	Type string `json:"type"`
}

// ExtractRequest is one document handed to the extraction service.
type ExtractRequest struct {
	Data     []byte
	MimeType string
	Filename string
	DocType  string
	Provider string
}

// Validate performs basic validation on the request
func (r *ExtractRequest) Validate() error {
	if len(r.Data) == 0 {
		return ErrEmptyDocument
	}
	if _, err := ParseDocumentType(strings.ToLower(strings.TrimSpace(r.DocType))); err != nil {
		return err
	}
	return nil
}
