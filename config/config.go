// Package config loads the service configuration from defaults, an optional
// YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/candrapwr/information-extraction/logger"
	"github.com/candrapwr/information-extraction/utils/ktp"
	"github.com/spf13/viper"
)

// Environment is the running environment of the service.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// OCR providers.
const (
	ProviderTesseract = "tesseract"
	ProviderEasyOCR   = "easyocr"
	ProviderLLM       = "llm"
)

// Providers lists every supported provider name.
var Providers = []string{ProviderTesseract, ProviderEasyOCR, ProviderLLM}

const (
	defaultPrompt = "You are an AI that only outputs raw JSON. Never include explanations or markdown. Return a valid JSON object only."

	passportPrompt = defaultPrompt + " Extract the following passport fields: passport_number, name, nationality, " +
		"date_of_birth, gender, expiration_date, country_code. If a field is missing or unreadable, set it to null."

	ktpPrompt = defaultPrompt + " Extract the following Indonesian KTP fields: province, city, nik, name, birth_place, " +
		"birth_date, gender, blood_type, address, rt_rw, kelurahan_desa, kecamatan, religion, marital_status, " +
		"occupation, nationality, valid_until. If any field is missing or unreadable, set its value to null."
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Environment    Environment `mapstructure:"environment" yaml:"environment"`
	Port           string      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxFileSize    int64       `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// EasyOCRConfig holds settings for the EasyOCR subprocess.
type EasyOCRConfig struct {
	// Languages defaults to the tesseract languages when empty.
	Languages []string `mapstructure:"languages" yaml:"languages"`
	GPU       bool     `mapstructure:"gpu" yaml:"gpu"`
	PythonBin string   `mapstructure:"python_bin" yaml:"python_bin"`
}

// OCRConfig holds text recognition settings.
type OCRConfig struct {
	DefaultProvider   string        `mapstructure:"default_provider" yaml:"default_provider"`
	TesseractDataPath string        `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"`
	Languages         string        `mapstructure:"languages" yaml:"languages"`
	EasyOCR           EasyOCRConfig `mapstructure:"easyocr" yaml:"easyocr"`
}

// LLMConfig holds settings for the vision model provider.
type LLMConfig struct {
	APIKey         string            `mapstructure:"api_key" yaml:"api_key"`
	APIKeyEnv      string            `mapstructure:"api_key_env" yaml:"api_key_env"`
	Model          string            `mapstructure:"model" yaml:"model"`
	Endpoint       string            `mapstructure:"endpoint" yaml:"endpoint"`
	TimeoutSeconds int               `mapstructure:"timeout" yaml:"timeout"`
	Prompts        map[string]string `mapstructure:"prompts" yaml:"prompts"`
}

// ResolveAPIKey prefers the environment variable named by APIKeyEnv and
// falls back to APIKey.
func (c LLMConfig) ResolveAPIKey() string {
	if c.APIKeyEnv != "" {
		if key := strings.TrimSpace(os.Getenv(c.APIKeyEnv)); key != "" {
			return key
		}
	}
	return strings.TrimSpace(c.APIKey)
}

// Prompt returns the prompt for docType, then the "default" prompt, then the
// built-in prompt for the document type.
func (c LLMConfig) Prompt(docType string) string {
	if p := c.Prompts[docType]; p != "" {
		return p
	}
	if p := c.Prompts["default"]; p != "" {
		return p
	}
	switch docType {
	case "passport":
		return passportPrompt
	case "ktp":
		return ktpPrompt
	}
	return defaultPrompt
}

// TemplatesConfig selects the KTP template and an optional pattern file.
type TemplatesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
	KTP  string `mapstructure:"ktp" yaml:"ktp"`
}

// Config aggregates all configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	OCR       OCRConfig       `mapstructure:"ocr" yaml:"ocr"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Templates TemplatesConfig `mapstructure:"templates" yaml:"templates"`
}

// IsProduction returns true when running in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// NormalizeProvider lowercases name and maps the empty name to the default
// provider. "pytesseract" is accepted as an alias of tesseract.
func (c *Config) NormalizeProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return c.OCR.DefaultProvider
	case "pytesseract":
		return ProviderTesseract
	}
	return name
}

// EasyOCRLanguages returns the configured EasyOCR languages or derives them
// from the tesseract language string ("ind+eng" -> ["ind", "eng"]).
func (c *Config) EasyOCRLanguages() []string {
	if len(c.OCR.EasyOCR.Languages) > 0 {
		return c.OCR.EasyOCR.Languages
	}
	var langs []string
	for _, l := range strings.FieldsFunc(c.OCR.Languages, func(r rune) bool { return r == '+' || r == ' ' }) {
		langs = append(langs, strings.ToLower(l))
	}
	return langs
}

// bindEnvVars binds environment variables to config keys.
// Format: []{configKey, envVar...}
func bindEnvVars(v *viper.Viper, bindings [][]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig reads defaults, the YAML file at path (when not empty) and the
// environment, then validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_file_size", 10*1024*1024)
	v.SetDefault("ocr.default_provider", ProviderTesseract)
	v.SetDefault("ocr.tessdata_prefix", "/usr/share/tesseract-ocr/4.00/tessdata")
	v.SetDefault("ocr.languages", "ind+eng")
	v.SetDefault("ocr.easyocr.languages", []string{})
	v.SetDefault("ocr.easyocr.gpu", false)
	v.SetDefault("ocr.easyocr.python_bin", "python3")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.endpoint", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.timeout", 30)
	v.SetDefault("templates.file", "")
	v.SetDefault("templates.ktp", ktp.TemplateKTP)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][]string{
		{"server.environment", "ENVIRONMENT"},
		{"server.port", "PORT", "SERVER_PORT"},
		{"server.allowed_origins", "ALLOWED_ORIGINS"},
		{"server.max_file_size", "MAX_UPLOAD_BYTES"},
		{"ocr.default_provider", "OCR_DEFAULT_PROVIDER"},
		{"ocr.tessdata_prefix", "TESSDATA_PREFIX"},
		{"ocr.languages", "OCR_LANGUAGES"},
		{"llm.api_key", "LLM_API_KEY"},
		{"llm.model", "LLM_MODEL"},
		{"llm.endpoint", "LLM_ENDPOINT"},
		{"llm.timeout", "LLM_TIMEOUT"},
		{"templates.file", "TEMPLATES_FILE"},
		{"templates.ktp", "KTP_TEMPLATE"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	cfg.OCR.DefaultProvider = strings.ToLower(strings.TrimSpace(cfg.OCR.DefaultProvider))
	cfg.Templates.KTP = strings.ToLower(strings.TrimSpace(cfg.Templates.KTP))

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"default_provider", cfg.OCR.DefaultProvider,
		"ocr_languages", cfg.OCR.Languages,
		"llm_model", cfg.LLM.Model,
		"llm_api_key", logger.MaskSensitiveString(cfg.LLM.ResolveAPIKey(), 3, 2),
		"ktp_template", cfg.Templates.KTP,
	)
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Server.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}
	if !slices.Contains(Providers, cfg.OCR.DefaultProvider) {
		return fmt.Errorf("unsupported default OCR provider '%s'", cfg.OCR.DefaultProvider)
	}
	if cfg.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	switch cfg.Templates.KTP {
	case ktp.TemplateKTP, ktp.TemplateKTPExtended:
	default:
		return fmt.Errorf("unknown KTP template '%s'", cfg.Templates.KTP)
	}
	if cfg.OCR.DefaultProvider == ProviderLLM && cfg.LLM.ResolveAPIKey() == "" {
		logger.GetLogger().Warn("LLM is the default provider but no API key is configured")
	}
	return nil
}

