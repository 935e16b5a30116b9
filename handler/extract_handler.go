package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/candrapwr/information-extraction/dto"
	"github.com/candrapwr/information-extraction/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Extractor is the extraction service used by the handlers.
type Extractor interface {
	Extract(ctx context.Context, req dto.ExtractRequest) (*dto.ExtractResponse, error)
	ExtractText(ctx context.Context, text, docType string) (*dto.ExtractResponse, error)
}

// ExtractHandler handles document extraction requests
type ExtractHandler struct {
	extractor   Extractor
	maxFileSize int64
	log         *zap.SugaredLogger
}

// NewExtractHandler creates a new ExtractHandler instance
func NewExtractHandler(extractor Extractor, maxFileSize int64) *ExtractHandler {
	return &ExtractHandler{
		extractor:   extractor,
		maxFileSize: maxFileSize,
		log:         logger.GetLogger().Named("handler"),
	}
}

// Extract handles the POST /api/v1/extract endpoint
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req dto.ExtractUploadRequest
	if err := c.ShouldBind(&req); err != nil || req.File == nil {
		h.sendError(c, http.StatusBadRequest, "A file is required in the 'file' field", nil)
		return
	}
	file := req.File

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		h.sendError(c, http.StatusRequestEntityTooLarge, "File exceeds the maximum upload size", nil)
		return
	}

	mimeType := strings.ToLower(file.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = inferMimeType(file.Filename)
	}
	if !isValidMimeType(mimeType) {
		h.sendError(c, http.StatusBadRequest, "Invalid file type. Supported: PDF, PNG, JPEG", dto.ErrUnsupportedFileType)
		return
	}

	reader, err := file.Open()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to open uploaded file", err)
		return
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to read file data", err)
		return
	}

	h.log.Infow("Processing upload",
		"request_id", c.GetString(RequestIDKey),
		"file", file.Filename,
		"mime_type", mimeType,
		"type", req.Type,
		"provider", req.Provider,
	)

	result, err := h.extractor.Extract(c.Request.Context(), dto.ExtractRequest{
		Data:     fileData,
		MimeType: mimeType,
		Filename: file.Filename,
		DocType:  req.Type,
		Provider: req.Provider,
	})
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to extract document", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExtractText handles the POST /api/v1/extract/text endpoint
func (h *ExtractHandler) ExtractText(c *gin.Context) {
	var req dto.ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "A JSON body with a 'text' field is required", nil)
		return
	}

	result, err := h.extractor.ExtractText(c.Request.Context(), req.Text, req.Type)
	if err != nil {
		h.sendError(c, statusFor(err), "Failed to extract document", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusFor maps request errors to 400 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrEmptyDocument),
		errors.Is(err, dto.ErrUnsupportedDocType),
		errors.Is(err, dto.ErrUnsupportedProvider),
		errors.Is(err, dto.ErrUnsupportedFileType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// sendError sends a structured error response
func (h *ExtractHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		h.log.Warnw(message, "request_id", c.GetString(RequestIDKey), "error", err)
	}

	code := "EXTRACTION_FAILED"
	if statusCode < http.StatusInternalServerError {
		code = "INVALID_REQUEST"
	}
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}

// isValidMimeType checks if the MIME type is supported
func isValidMimeType(mimeType string) bool {
	validTypes := []string{
		"application/pdf",
		"image/png",
		"image/jpeg",
		"image/jpg",
	}

	mimeType = strings.ToLower(mimeType)
	for _, valid := range validTypes {
		if strings.Contains(mimeType, valid) {
			return true
		}
	}
	return false
}

// inferMimeType infers MIME type from file extension
func inferMimeType(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".pdf") {
		return "application/pdf"
	} else if strings.HasSuffix(lower, ".png") {
		return "image/png"
	} else if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return "image/jpeg"
	}
	return ""
}
