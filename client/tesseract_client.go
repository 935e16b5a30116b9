package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/candrapwr/information-extraction/config"
	"github.com/candrapwr/information-extraction/logger"
	"github.com/otiai10/gosseract/v2"
)

type TesseractClient struct {
	dataPath  string
	languages []string
}

func NewTesseractClient(cfg config.OCRConfig) *TesseractClient {
	langs := strings.FieldsFunc(cfg.Languages, func(r rune) bool { return r == '+' || r == ' ' })
	if len(langs) == 0 {
		langs = []string{"ind", "eng"}
	}
	return &TesseractClient{
		dataPath:  cfg.TesseractDataPath,
		languages: langs,
	}
}

// ExtractText runs Tesseract over an encoded PNG or JPEG image.
func (tc *TesseractClient) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	text, conf, err := tc.ExtractTextAndQuality(ctx, data)
	if err != nil {
		return "", err
	}
	logger.GetLogger().Debugw("Tesseract OCR finished",
		"mime_type", mimeType,
		"characters", len(text),
		"confidence", conf,
	)
	return text, nil
}

// ExtractTextAndQuality returns the recognized text and the mean word
// confidence. A confidence of 0 means boxes were unavailable.
func (tc *TesseractClient) ExtractTextAndQuality(ctx context.Context, data []byte) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
			return "", 0, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(tc.languages...); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}
	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}
	return text, avgConf, nil
}
