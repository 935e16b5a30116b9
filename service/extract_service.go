package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/candrapwr/information-extraction/client"
	"github.com/candrapwr/information-extraction/config"
	"github.com/candrapwr/information-extraction/dto"
	"github.com/candrapwr/information-extraction/logger"
	"github.com/candrapwr/information-extraction/utils"
	"github.com/candrapwr/information-extraction/utils/ktp"
	"github.com/candrapwr/information-extraction/utils/passport"
	"go.uber.org/zap"
)

// TextExtractor turns an encoded image into text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// FieldExtractor reads document fields straight from an image.
type FieldExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType, docType string) (*client.LLMResult, error)
}

// page is one image of a document.
type page struct {
	data     []byte
	mimeType string
	img      image.Image
}

// ExtractService turns KTP and passport documents into field results.
type ExtractService struct {
	cfg          *config.Config
	template     *ktp.Template
	pdfProcessor PDFProcessor
	ocr          map[string]TextExtractor
	llm          FieldExtractor
	metrics      *Metrics
	log          *zap.SugaredLogger
}

// NewExtractService creates an ExtractService. OCR providers and the LLM
// are registered with WithOCR and WithLLM.
func NewExtractService(cfg *config.Config, tmpl *ktp.Template, pdfProcessor PDFProcessor, metrics *Metrics) *ExtractService {
	if tmpl == nil {
		tmpl = ktp.KTP
	}
	return &ExtractService{
		cfg:          cfg,
		template:     tmpl,
		pdfProcessor: pdfProcessor,
		ocr:          map[string]TextExtractor{},
		metrics:      metrics,
		log:          logger.GetLogger().Named("extract"),
	}
}

// WithOCR registers a text extractor under a provider name.
func (s *ExtractService) WithOCR(provider string, e TextExtractor) *ExtractService {
	s.ocr[provider] = e
	return s
}

// WithLLM registers the vision model used by the llm provider.
func (s *ExtractService) WithLLM(l FieldExtractor) *ExtractService {
	s.llm = l
	return s
}

// Template returns the KTP template in use.
func (s *ExtractService) Template() *ktp.Template {
	return s.template
}

// Keys returns the result fields of a document type.
func (s *ExtractService) Keys(docType dto.DocumentType) []string {
	if docType == dto.DocTypePassport {
		return passport.Fields
	}
	return s.template.Keys()
}

// Extract reads one uploaded document. PDFs with a usable text layer skip
// OCR, KTP images carrying a JSON QR payload skip OCR, and the llm provider
// skips the heuristic parser.
func (s *ExtractService) Extract(ctx context.Context, req dto.ExtractRequest) (*dto.ExtractResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	docType, _ := dto.ParseDocumentType(strings.ToLower(strings.TrimSpace(req.DocType)))

	provider := s.cfg.NormalizeProvider(req.Provider)
	if !slices.Contains(config.Providers, provider) {
		return nil, fmt.Errorf("%w '%s'", dto.ErrUnsupportedProvider, provider)
	}

	start := time.Now()
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(req.Data)
	}

	var pages []page
	if strings.Contains(mimeType, "pdf") {
		text, err := s.pdfProcessor.ExtractText(req.Data)
		if err != nil {
			s.log.Warnw("PDF text layer unreadable, falling back to page images", "file", req.Filename, "error", err)
		} else if usableText(text) {
			return s.finish(s.parse(text, docType), docType, dto.SourcePDFText, "", nil, req.Filename, start), nil
		}

		images, err := s.pdfProcessor.ExtractImages(req.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
		}
		if len(images) == 0 {
			return nil, errors.New("no images found in PDF")
		}
		for i, img := range images {
			buf := new(bytes.Buffer)
			if err := png.Encode(buf, img); err != nil {
				s.log.Warnw("Failed to encode PDF page", "page", i+1, "error", err)
				continue
			}
			pages = append(pages, page{data: buf.Bytes(), mimeType: "image/png", img: img})
		}
	} else {
		img, err := decodeImage(req.Data, mimeType)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		pages = append(pages, page{data: req.Data, mimeType: mimeType, img: img})
	}
	if len(pages) == 0 {
		return nil, errors.New("no readable pages in document")
	}

	if docType == dto.DocTypeKTP {
		for i, p := range pages {
			payload, err := decodeQR(p.img)
			if err != nil {
				continue
			}
			if result, ok := qrFields(payload, s.template.Keys()); ok {
				s.log.Infow("KTP fields read from QR code", "file", req.Filename, "page", i+1)
				return s.finish(result, docType, dto.SourceQR, "", nil, req.Filename, start), nil
			}
		}
	}

	if provider == config.ProviderLLM {
		if s.llm == nil {
			return nil, fmt.Errorf("%w '%s': not configured", dto.ErrUnsupportedProvider, provider)
		}
		res, err := s.llm.Extract(ctx, pages[0].data, pages[0].mimeType, string(docType))
		if err != nil {
			return nil, fmt.Errorf("LLM extraction failed: %w", err)
		}
		result := utils.NormalizeFields(res.Data, s.Keys(docType))
		return s.finish(result, docType, dto.SourceLLM, provider, res.Usage, req.Filename, start), nil
	}

	ocr, ok := s.ocr[provider]
	if !ok {
		return nil, fmt.Errorf("%w '%s': not configured", dto.ErrUnsupportedProvider, provider)
	}

	var fullText []string
	var lastErr error
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := ocr.ExtractText(ctx, p.data, p.mimeType)
		if err != nil {
			s.log.Warnw("OCR failed", "file", req.Filename, "page", i+1, "provider", provider, "error", err)
			lastErr = err
			continue
		}
		fullText = append(fullText, text)
	}
	if len(fullText) == 0 {
		return nil, fmt.Errorf("OCR extraction failed: %w", lastErr)
	}

	text := strings.Join(fullText, "\n")
	s.log.Debugw("OCR text", "file", req.Filename, "characters", len(text))
	return s.finish(s.parse(text, docType), docType, dto.SourceOCR, provider, nil, req.Filename, start), nil
}

// ExtractText runs the field parser over caller supplied OCR text.
func (s *ExtractService) ExtractText(ctx context.Context, text, docType string) (*dto.ExtractResponse, error) {
	dt, err := dto.ParseDocumentType(strings.ToLower(strings.TrimSpace(docType)))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, dto.ErrEmptyDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	return s.finish(s.parse(text, dt), dt, dto.SourceOCR, "", nil, "", start), nil
}

func (s *ExtractService) parse(text string, docType dto.DocumentType) utils.Result {
	text = utils.NormalizeOCRText(text)
	if docType == dto.DocTypePassport {
		return passport.FromText(text)
	}
	return ktp.Parse(text, s.template)
}

func (s *ExtractService) finish(result utils.Result, docType dto.DocumentType, source dto.Source,
	provider string, usage map[string]any, filename string, start time.Time) *dto.ExtractResponse {
	valid := ValidateResult(result, string(docType))
	found := result.Count(s.Keys(docType))
	elapsed := time.Since(start)

	s.metrics.Observe(string(docType), string(source), valid, found, elapsed)
	s.log.Infow("Document extracted",
		"file", filename,
		"doc_type", docType,
		"source", source,
		"provider", provider,
		"valid", valid,
		"fields_found", found,
		"nik", logger.MaskNIK(nikOf(result)),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return &dto.ExtractResponse{
		Status:    "success",
		Data:      result,
		Valid:     valid,
		DocType:   docType,
		Source:    source,
		Provider:  provider,
		Usage:     usage,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func nikOf(result utils.Result) string {
	if result.Found(ktp.FieldNIK) {
		return result[ktp.FieldNIK]
	}
	return ""
}

// decodeImage decodes an image from bytes based on MIME type
func decodeImage(data []byte, mimeType string) (image.Image, error) {
	reader := bytes.NewReader(data)

	if strings.Contains(mimeType, "png") {
		return png.Decode(reader)
	} else if strings.Contains(mimeType, "jpeg") || strings.Contains(mimeType, "jpg") {
		return jpeg.Decode(reader)
	}

	img, _, err := image.Decode(reader)
	return img, err
}
