// Package whisper provides a speech-recognition provider for
// OpenAI-compatible transcription endpoints, including whisper.cpp servers
// and the hosted OpenAI audio API.
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/entrhq/scribe/pkg/asr"
)

// DefaultBaseURL targets a locally hosted whisper server.
const DefaultBaseURL = "http://localhost:9000/v1"

// defaultModels maps quality levels to the conventional whisper model names.
var defaultModels = map[asr.Quality]string{
	asr.QualityTiny:   "whisper-tiny",
	asr.QualityBase:   "whisper-base",
	asr.QualitySmall:  "whisper-small",
	asr.QualityMedium: "whisper-medium",
}

// Provider implements asr.Provider over the /audio/transcriptions endpoint.
type Provider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	models     map[asr.Quality]string
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// WithModels overrides the quality-to-model mapping, e.g. to route every
// quality level to the hosted "whisper-1" model.
func WithModels(models map[asr.Quality]string) ProviderOption {
	return func(p *Provider) {
		for q, m := range models {
			p.models[q] = m
		}
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// NewProvider creates a whisper provider. The API key may be empty for
// local servers that do not authenticate.
func NewProvider(apiKey string, opts ...ProviderOption) *Provider {
	p := &Provider{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		models:     make(map[asr.Quality]string, len(defaultModels)),
	}
	for q, m := range defaultModels {
		p.models[q] = m
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Transcribe uploads the audio as multipart form data and returns the
// transcript text.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, filename string, quality asr.Quality) (string, error) {
	model, ok := p.models[quality]
	if !ok {
		return "", &asr.TranscriptionError{Op: "select model", Err: fmt.Errorf("unknown quality level %q", quality)}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", &asr.TranscriptionError{Op: "build request", Err: err}
	}
	if _, err := part.Write(audio); err != nil {
		return "", &asr.TranscriptionError{Op: "build request", Err: err}
	}
	if err := writer.WriteField("model", model); err != nil {
		return "", &asr.TranscriptionError{Op: "build request", Err: err}
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", &asr.TranscriptionError{Op: "build request", Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &asr.TranscriptionError{Op: "build request", Err: err}
	}

	url := p.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", &asr.TranscriptionError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &asr.TranscriptionError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &asr.TranscriptionError{Op: "read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &asr.TranscriptionError{
			Op:  "transcription",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	return strings.TrimSpace(string(body)), nil
}
