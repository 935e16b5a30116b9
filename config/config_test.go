package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(10*1024*1024), cfg.Server.MaxFileSize)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, ProviderTesseract, cfg.OCR.DefaultProvider)
	assert.Equal(t, "ind+eng", cfg.OCR.Languages)
	assert.Equal(t, "python3", cfg.OCR.EasyOCR.PythonBin)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 30, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, "ktp", cfg.Templates.KTP)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OCR_DEFAULT_PROVIDER", "EasyOCR")
	t.Setenv("OCR_LANGUAGES", "ind")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("KTP_TEMPLATE", "ktp_extended")
	t.Setenv("LLM_TIMEOUT", "5")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, ProviderEasyOCR, cfg.OCR.DefaultProvider)
	assert.Equal(t, "ind", cfg.OCR.Languages)
	assert.Equal(t, int64(2048), cfg.Server.MaxFileSize)
	assert.Equal(t, "ktp_extended", cfg.Templates.KTP)
	assert.Equal(t, 5, cfg.LLM.TimeoutSeconds)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "7000"
ocr:
  default_provider: llm
  easyocr:
    languages: [id, en]
    gpu: true
llm:
  api_key: file-key
  api_key_env: IDEXTRACT_TEST_KEY
  prompts:
    ktp: "custom ktp prompt"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("IDEXTRACT_TEST_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, ProviderLLM, cfg.OCR.DefaultProvider)
	assert.Equal(t, []string{"id", "en"}, cfg.EasyOCRLanguages())
	assert.True(t, cfg.OCR.EasyOCR.GPU)
	assert.Equal(t, "file-key", cfg.LLM.ResolveAPIKey())
	assert.Equal(t, "custom ktp prompt", cfg.LLM.Prompt("ktp"))
	assert.Contains(t, cfg.LLM.Prompt("passport"), "passport_number")
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{name: "unknown provider", envVars: map[string]string{"OCR_DEFAULT_PROVIDER": "paddle"}},
		{name: "unknown template", envVars: map[string]string{"KTP_TEMPLATE": "sim"}},
		{name: "non positive upload size", envVars: map[string]string{"MAX_UPLOAD_BYTES": "0"}},
		{name: "non positive timeout", envVars: map[string]string{"LLM_TIMEOUT": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}
			cfg, err := LoadConfig("")
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveAPIKeyPrefersEnvironment(t *testing.T) {
	c := LLMConfig{APIKey: "config-key", APIKeyEnv: "IDEXTRACT_TEST_KEY"}

	t.Setenv("IDEXTRACT_TEST_KEY", "env-key")
	assert.Equal(t, "env-key", c.ResolveAPIKey())

	t.Setenv("IDEXTRACT_TEST_KEY", "  ")
	assert.Equal(t, "config-key", c.ResolveAPIKey())
}

func TestNormalizeProvider(t *testing.T) {
	cfg := &Config{OCR: OCRConfig{DefaultProvider: ProviderEasyOCR, Languages: "eng+IND"}}

	assert.Equal(t, ProviderEasyOCR, cfg.NormalizeProvider(""))
	assert.Equal(t, ProviderTesseract, cfg.NormalizeProvider("PyTesseract"))
	assert.Equal(t, ProviderLLM, cfg.NormalizeProvider(" LLM "))
	assert.Equal(t, []string{"eng", "ind"}, cfg.EasyOCRLanguages())
}

func TestPromptFallbacks(t *testing.T) {
	c := LLMConfig{Prompts: map[string]string{"default": "generic"}}
	assert.Equal(t, "generic", c.Prompt("passport"))

	c = LLMConfig{}
	assert.Contains(t, c.Prompt("ktp"), "kelurahan_desa")
	assert.Contains(t, c.Prompt("other"), "raw JSON")
}
