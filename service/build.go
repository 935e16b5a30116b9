package service

import (
	"github.com/candrapwr/information-extraction/client"
	"github.com/candrapwr/information-extraction/config"
	"github.com/candrapwr/information-extraction/utils/ktp"
	"github.com/prometheus/client_golang/prometheus"
)

// Build wires the OCR providers, the LLM client and the KTP template
// selected by cfg.
func Build(cfg *config.Config, reg prometheus.Registerer) (*ExtractService, error) {
	registry := ktp.DefaultRegistry()
	if cfg.Templates.File != "" {
		var err error
		if registry, err = ktp.LoadRegistryFile(cfg.Templates.File); err != nil {
			return nil, err
		}
	}
	tmpl, err := registry.Template(cfg.Templates.KTP)
	if err != nil {
		return nil, err
	}

	llmClient, err := client.NewLLMClient(cfg.LLM)
	if err != nil {
		return nil, err
	}

	return NewExtractService(cfg, tmpl, NewPDFProcessor(), NewMetrics(reg)).
		WithOCR(config.ProviderTesseract, client.NewTesseractClient(cfg.OCR)).
		WithOCR(config.ProviderEasyOCR, client.NewEasyOCRClient(cfg.OCR.EasyOCR.PythonBin, cfg.EasyOCRLanguages(), cfg.OCR.EasyOCR.GPU)).
		WithLLM(llmClient), nil
}
