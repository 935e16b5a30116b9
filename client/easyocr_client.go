package client

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/candrapwr/information-extraction/logger"
)

// easyOCRScript reads the image path, a comma separated language list and
// the GPU flag from argv and prints one recognized line per row.
const easyOCRScript = `
import sys
import warnings
warnings.filterwarnings('ignore')
import easyocr

reader = easyocr.Reader(sys.argv[2].split(','), gpu=sys.argv[3] == 'true', verbose=False)
for line in reader.readtext(sys.argv[1], detail=0):
    print(line)
`

// EasyOCRClient wraps the EasyOCR Python package for text extraction.
type EasyOCRClient struct {
	pythonBin string
	languages []string
	gpu       bool
}

// NewEasyOCRClient creates a client running EasyOCR through pythonBin.
func NewEasyOCRClient(pythonBin string, languages []string, gpu bool) *EasyOCRClient {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	if len(languages) == 0 {
		languages = []string{"id", "en"}
	}
	return &EasyOCRClient{
		pythonBin: pythonBin,
		languages: languages,
		gpu:       gpu,
	}
}

// ExtractText saves the image to a temporary file and runs EasyOCR on it.
func (e *EasyOCRClient) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	tempFile, err := saveTempImage(data, mimeType)
	if err != nil {
		return "", fmt.Errorf("failed to save temp image: %w", err)
	}
	defer os.Remove(tempFile)

	out, err := e.runEasyOCR(ctx, tempFile)
	if err != nil {
		return "", err
	}

	text := joinLines(out)
	logger.GetLogger().Debugw("EasyOCR finished",
		"languages", e.languages,
		"gpu", e.gpu,
		"characters", len(text),
	)
	return text, nil
}

func (e *EasyOCRClient) runEasyOCR(ctx context.Context, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, e.pythonBin, "-c", easyOCRScript,
		imagePath, strings.Join(e.languages, ","), strconv.FormatBool(e.gpu))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("EasyOCR command failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// joinLines trims every output line and drops the empty ones.
func joinLines(out string) string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// saveTempImage writes encoded image bytes to a temporary file whose
// extension follows the MIME type.
func saveTempImage(data []byte, mimeType string) (string, error) {
	ext := ".png"
	if mimeType == "image/jpeg" {
		ext = ".jpg"
	}
	tempFile, err := os.CreateTemp("", "easyocr-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := tempFile.Write(data); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return tempFile.Name(), nil
}
