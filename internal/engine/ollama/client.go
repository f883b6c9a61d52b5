package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/strokeguard-backend/internal/config"
	"github.com/yungbote/strokeguard-backend/internal/engine"
)

// Engine talks to an Ollama-style /api/generate endpoint with streaming disabled.
type Engine struct {
	baseURL      string
	generatePath string
	maxBytes     int64
	httpClient   *http.Client
}

func New(cfg config.GeneratorConfig) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ollama: base_url required")
	}
	path := strings.TrimSpace(cfg.GeneratePath)
	if path == "" {
		path = "/api/generate"
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = 4 << 20
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Engine{
		baseURL:      baseURL,
		generatePath: path,
		maxBytes:     maxBytes,
		httpClient:   &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg config.GeneratorConfig, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (e *Engine) GenerateText(ctx context.Context, model string, prompt string, opts engine.GenerateOptions) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(generateRequest{Model: model, Prompt: prompt, Stream: false}); err != nil {
		return "", err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+e.generatePath, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/x-ndjson")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > e.maxBytes {
		return "", fmt.Errorf("%w: reply exceeds %d bytes", ErrReplyTooLarge, e.maxBytes)
	}

	text, status, perr := ParseGenerateBody(body)
	switch status {
	case Parsed:
		return text, nil
	case Empty:
		return "", nil
	default:
		return "", &MalformedError{Body: truncate(string(body), 512), Err: perr}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
