package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

// WhisperClient is a minimal client for the speech-to-text endpoint
// (audio transcriptions API)
type WhisperClient struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	client   *http.Client
}

// NewWhisperClient creates a transcription client using values from the
// provided config. Pass a nil config to fall back to environment
// variables.
func NewWhisperClient(cfg *config.OpenAIConfig) *WhisperClient {
	var apiKey, base, model, language string
	timeout := 120 * time.Second

	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.WhisperModel
		language = cfg.Language
		if cfg.TranscribeTimeout > 0 {
			timeout = cfg.TranscribeTimeout
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if base == "" {
		base = "https://api.openai.com"
	}
	if model == "" {
		model = "whisper-1"
	}
	if language == "" {
		language = "zh"
	}

	return &WhisperClient{
		apiKey:   apiKey,
		baseURL:  base,
		model:    model,
		language: language,
		client:   &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads the audio file and returns the plain-text
// transcript. One request per call: the 25 MB upload limit keeps the
// whole file inside a single provider call, so there is no chunking and
// no retry.
func (w *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	_ = mw.WriteField("model", w.model)
	_ = mw.WriteField("language", w.language)
	_ = mw.WriteField("response_format", "text")
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	endpoint := w.baseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("transcription provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return strings.TrimSpace(string(body)), nil
}
