package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/candrapwr/information-extraction/dto"
	"github.com/candrapwr/information-extraction/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	req     dto.ExtractRequest
	text    string
	docType string
	err     error
}

func (f *fakeExtractor) Extract(_ context.Context, req dto.ExtractRequest) (*dto.ExtractResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ExtractResponse{Status: "success", Data: utils.Result{"nik": "3174012345678901"}, DocType: dto.DocTypeKTP}, nil
}

func (f *fakeExtractor) ExtractText(_ context.Context, text, docType string) (*dto.ExtractResponse, error) {
	f.text, f.docType = text, docType
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ExtractResponse{Status: "success", Data: utils.Result{"name": "BUDI"}}, nil
}

func setupRouter(ext Extractor, maxSize int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	h := NewExtractHandler(ext, maxSize)
	r.POST("/api/v1/extract", h.Extract)
	r.POST("/api/v1/extract/text", h.ExtractText)
	return r
}

func uploadRequest(t *testing.T, filename, contentType string, fields map[string]string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestExtractUpload(t *testing.T) {
	ext := &fakeExtractor{}
	r := setupRouter(ext, 1024)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "card.JPG", "application/octet-stream", map[string]string{
		"type":     "passport",
		"provider": "easyocr",
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "image/jpeg", ext.req.MimeType)
	assert.Equal(t, "card.JPG", ext.req.Filename)
	assert.Equal(t, "passport", ext.req.DocType)
	assert.Equal(t, "easyocr", ext.req.Provider)
	assert.Equal(t, []byte("image bytes"), ext.req.Data)

	var resp dto.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "3174012345678901", resp.Data["nik"])
}

func TestExtractUploadRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mime     string
		maxSize  int64
		status   int
	}{
		{name: "missing file", status: http.StatusBadRequest},
		{name: "unsupported type", filename: "card.gif", mime: "image/gif", maxSize: 1024, status: http.StatusBadRequest},
		{name: "unknown extension", filename: "card.bin", maxSize: 1024, status: http.StatusBadRequest},
		{name: "too large", filename: "card.png", mime: "image/png", maxSize: 4, status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&fakeExtractor{}, tt.maxSize)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, uploadRequest(t, tt.filename, tt.mime, nil))

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, "INVALID_REQUEST", resp.Error)
			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestExtractServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{err: fmt.Errorf("%w 'paddle'", dto.ErrUnsupportedProvider), status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{err: dto.ErrUnsupportedDocType, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{err: errors.New("tesseract crashed"), status: http.StatusInternalServerError, code: "EXTRACTION_FAILED"},
	}

	for _, tt := range tests {
		r := setupRouter(&fakeExtractor{err: tt.err}, 1024)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, uploadRequest(t, "card.png", "image/png", nil))

		assert.Equal(t, tt.status, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, tt.code, resp.Error)
		assert.Equal(t, tt.err.Error(), resp.Message)
	}
}

func TestExtractTextEndpoint(t *testing.T) {
	ext := &fakeExtractor{}
	r := setupRouter(ext, 1024)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract/text",
		strings.NewReader(`{"text": "NIK : 3174012345678901", "type": "ktp"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "NIK : 3174012345678901", ext.text)
	assert.Equal(t, "ktp", ext.docType)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/extract/text", strings.NewReader(`{"type": "ktp"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMimeHelpers(t *testing.T) {
	assert.True(t, isValidMimeType("image/PNG"))
	assert.True(t, isValidMimeType("application/pdf"))
	assert.False(t, isValidMimeType("image/gif"))
	assert.Equal(t, "application/pdf", inferMimeType("scan.PDF"))
	assert.Equal(t, "image/jpeg", inferMimeType("a.jpeg"))
	assert.Equal(t, "", inferMimeType("a.tiff"))
}
