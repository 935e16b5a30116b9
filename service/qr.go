package service

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/candrapwr/information-extraction/utils"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// decodeQR returns the text of the first QR code found in img.
func decodeQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode QR code: %w", err)
	}
	return result.GetText(), nil
}

// qrFields reads a QR payload that is a JSON object keyed by result fields.
// Keys are matched case-insensitively; the payload is rejected when none of
// keys carries a value.
func qrFields(payload string, keys []string) (utils.Result, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &raw); err != nil {
		return nil, false
	}

	data := make(map[string]any, len(raw))
	for k, v := range raw {
		data[strings.ToLower(strings.TrimSpace(k))] = v
	}

	result := utils.NormalizeFields(data, keys)
	if result.Count(keys) == 0 {
		return nil, false
	}
	for k, v := range result {
		if utils.IsPresent(v) {
			result[k] = strings.ToUpper(v)
		}
	}
	return result, true
}
