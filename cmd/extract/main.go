// Command extract reads KTP or passport images and prints the extracted
// fields as JSON.
//
//	extract [-config file] [-type ktp|passport] [-provider name] [-xlsx out.xlsx] image...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/candrapwr/information-extraction/config"
	"github.com/candrapwr/information-extraction/dto"
	"github.com/candrapwr/information-extraction/logger"
	"github.com/candrapwr/information-extraction/service"
	"github.com/candrapwr/information-extraction/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// output is the JSON printed for one document.
type output struct {
	Status    string         `json:"status"`
	File      string         `json:"file,omitempty"`
	Data      utils.Result   `json:"data,omitempty"`
	Valid     *bool          `json:"valid,omitempty"`
	Usage     map[string]any `json:"usage,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	docType := fs.String("type", "ktp", "document type: ktp or passport")
	provider := fs.String("provider", "", "OCR provider: tesseract, easyocr or llm")
	xlsxPath := fs.String("xlsx", "", "also write the results to this spreadsheet")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	defer logger.Close()

	if fs.NArg() == 0 {
		return printJSON(stdout, failure("", errors.New("usage: extract [flags] image...")))
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return printJSON(stdout, failure("", err))
	}
	svc, err := service.Build(cfg, prometheus.NewRegistry())
	if err != nil {
		return printJSON(stdout, failure("", err))
	}

	ctx := context.Background()
	var (
		outputs []output
		rows    []service.ExportRow
		failed  bool
	)
	for _, path := range fs.Args() {
		out, row := extractFile(ctx, svc, path, *docType, *provider)
		if out.Status != "success" {
			failed = true
		} else {
			rows = append(rows, row)
		}
		outputs = append(outputs, out)
	}

	if *xlsxPath != "" && len(rows) > 0 {
		dt, _ := dto.ParseDocumentType(strings.ToLower(strings.TrimSpace(*docType)))
		if err := writeXLSX(*xlsxPath, svc.Keys(dt), rows); err != nil {
			failed = true
			outputs = append(outputs, failure(*xlsxPath, err))
		}
	}

	var code int
	if len(outputs) == 1 {
		code = printJSON(stdout, outputs[0])
	} else {
		code = printJSON(stdout, outputs)
	}
	if failed {
		return 1
	}
	return code
}

func extractFile(ctx context.Context, svc *service.ExtractService, path, docType, provider string) (output, service.ExportRow) {
	data, err := os.ReadFile(path)
	if err != nil {
		return failure(path, err), service.ExportRow{}
	}

	resp, err := svc.Extract(ctx, dto.ExtractRequest{
		Data:     data,
		Filename: filepath.Base(path),
		DocType:  docType,
		Provider: provider,
	})
	if err != nil {
		return failure(path, err), service.ExportRow{}
	}

	valid := resp.Valid
	return output{
		Status:    "success",
		File:      path,
		Data:      resp.Data,
		Valid:     &valid,
		Usage:     resp.Usage,
		Timestamp: resp.Timestamp,
	}, service.ExportRow{File: filepath.Base(path), Data: resp.Data}
}

func writeXLSX(path string, keys []string, rows []service.ExportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := service.WriteXLSX(f, keys, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func failure(path string, err error) output {
	return output{
		Status:    "error",
		File:      path,
		Error:     err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// printJSON writes v and returns 1 when v is a single failed output.
func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if out, ok := v.(output); ok && out.Status != "success" {
		return 1
	}
	return 0
}
