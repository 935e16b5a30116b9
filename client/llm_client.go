package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/candrapwr/information-extraction/config"
	"github.com/candrapwr/information-extraction/logger"
	"github.com/candrapwr/information-extraction/utils/ktp"
	"github.com/candrapwr/information-extraction/utils/passport"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMissingAPIKey is returned when no LLM API key could be resolved.
var ErrMissingAPIKey = errors.New("LLM API key is not configured")

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// LLMResult is the decoded reply of the vision model.
type LLMResult struct {
	Data      map[string]any
	Usage     map[string]any
	RequestID string
}

// LLMClient extracts document fields with a Gemini generateContent call.
type LLMClient struct {
	cfg        config.LLMConfig
	httpClient *http.Client
	schemas    map[string]*jsonschema.Schema
}

func NewLLMClient(cfg config.LLMConfig) (*LLMClient, error) {
	schemas := map[string]*jsonschema.Schema{}
	for docType, keys := range map[string][]string{
		"ktp":      ktp.KTPExtended.Keys(),
		"passport": passport.Fields,
	} {
		s, err := compileSchema(docType, keys)
		if err != nil {
			return nil, err
		}
		schemas[docType] = s
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LLMClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		schemas:    schemas,
	}, nil
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content       content        `json:"content"`
		UsageMetadata map[string]any `json:"usageMetadata"`
	} `json:"candidates"`
	UsageMetadata map[string]any `json:"usageMetadata"`
}

// Extract sends the image with the document type prompt and decodes the
// JSON object in the reply.
func (c *LLMClient) Extract(ctx context.Context, data []byte, mimeType, docType string) (*LLMResult, error) {
	log := logger.GetLogger()

	apiKey := c.cfg.ResolveAPIKey()
	if apiKey == "" {
		target := c.cfg.APIKeyEnv
		if target == "" {
			target = "llm.api_key"
		}
		return nil, fmt.Errorf("%w: set environment variable '%s' or provide llm.api_key", ErrMissingAPIKey, target)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{
		{Text: c.cfg.Prompt(docType)},
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(data)}},
	}}}})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Model, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	log.Infow("LLM request", "req_id", reqID, "model", c.cfg.Model, "doc_type", docType, "content_length", len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read LLM response: %w", err)
	}
	log.Infow("LLM response", "req_id", reqID, "status", resp.StatusCode, "bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LLM request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("decode LLM response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return nil, errors.New("LLM response did not contain any candidates")
	}

	usage := gr.UsageMetadata
	if usage == nil {
		usage = gr.Candidates[0].UsageMetadata
	}

	var text string
	for _, p := range gr.Candidates[0].Content.Parts {
		if p.Text != "" {
			text = p.Text
			break
		}
	}
	if text == "" {
		return nil, errors.New("LLM response missing text content")
	}

	fields, err := ParseJSONReply(text)
	if err != nil {
		return nil, err
	}
	if s, ok := c.schemas[docType]; ok {
		if err := s.Validate(fields); err != nil {
			log.Warnw("LLM reply does not match schema", "req_id", reqID, "error", err)
		}
	}

	return &LLMResult{Data: fields, Usage: usage, RequestID: reqID}, nil
}

// ParseJSONReply pulls the first JSON object out of a model reply. Code
// fences are ignored and trailing commas are tolerated.
func ParseJSONReply(text string) (map[string]any, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	obj, ok := firstObject(text)
	if !ok {
		return nil, errors.New("LLM response did not contain a JSON object")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(obj), &out); err == nil {
		return out, nil
	}
	if err := json.Unmarshal([]byte(trailingComma.ReplaceAllString(obj, "$1")), &out); err != nil {
		return nil, fmt.Errorf("LLM response was not valid JSON: %w", err)
	}
	return out, nil
}

// firstObject returns the first balanced {...} span of s, skipping braces
// inside string literals.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// compileSchema builds an object schema whose listed properties may be a
// string, a number or null.
func compileSchema(name string, keys []string) (*jsonschema.Schema, error) {
	props := map[string]any{}
	for _, k := range keys {
		props[k] = map[string]any{"type": []string{"string", "number", "null"}}
	}
	b, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": props,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	res := name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(res, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(res)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}
