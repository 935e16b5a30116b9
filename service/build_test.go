package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/candrapwr/information-extraction/config"
	"github.com/candrapwr/information-extraction/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelectsTemplate(t *testing.T) {
	cfg := &config.Config{
		OCR:       config.OCRConfig{DefaultProvider: config.ProviderTesseract, Languages: "ind+eng"},
		LLM:       config.LLMConfig{TimeoutSeconds: 1},
		Templates: config.TemplatesConfig{KTP: "ktp_extended"},
	}

	svc, err := Build(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "ktp_extended", svc.Template().Name)
	assert.Len(t, svc.Keys(dto.DocTypeKTP), 17)
	assert.Len(t, svc.Keys(dto.DocTypePassport), 7)
}

func TestBuildTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  ktp:\n    fields:\n      nik: '(\\d{16})'\n"), 0o600))

	cfg := &config.Config{LLM: config.LLMConfig{TimeoutSeconds: 1}, Templates: config.TemplatesConfig{File: path}}
	svc, err := Build(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "ktp", svc.Template().Name)

	cfg.Templates.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = Build(cfg, nil)
	assert.Error(t, err)
}
