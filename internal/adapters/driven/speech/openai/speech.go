// Package openai provides speech adapters for OpenAI-compatible audio APIs.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.SpeechRecognizer  = (*Client)(nil)
	_ driven.SpeechSynthesizer = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL         = "https://api.openai.com/v1"
	DefaultTranscribeModel = "whisper-1"
	DefaultSpeechModel     = "tts-1"
	DefaultVoice           = "alloy"
	DefaultTimeout         = 60 * time.Second

	speechFormat   = "wav"
	speechFilename = "reply.wav"
)

// Player plays synthesised audio.
type Player interface {
	Play(ctx context.Context, audio io.Reader, filename string) error
}

// Config holds configuration for the OpenAI audio client.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for compatible servers.
	BaseURL string

	// TranscribeModel is the speech-to-text model (default: whisper-1).
	TranscribeModel string

	// SpeechModel is the text-to-speech model (default: tts-1).
	SpeechModel string

	// Voice is the synthesis voice (default: alloy).
	Voice string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestRate caps requests per second (default: 2).
	RequestRate float64

	// Player plays synthesised replies. Without one, Speak is unavailable.
	Player Player
}

// Client transcribes and synthesises speech over HTTP.
type Client struct {
	client          *http.Client
	baseURL         string
	apiKey          string
	transcribeModel string
	speechModel     string
	voice           string
	limiter         *RateLimiter
	player          Player
}

// transcriptionResponse is the /audio/transcriptions response format.
type transcriptionResponse struct {
	Text  string    `json:"text"`
	Error *apiError `json:"error,omitempty"`
}

// speechRequest is the /audio/speech request format.
type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient creates a new OpenAI audio client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = DefaultTranscribeModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:          cfg.APIKey,
		transcribeModel: cfg.TranscribeModel,
		speechModel:     cfg.SpeechModel,
		voice:           cfg.Voice,
		limiter:         NewRateLimiter(cfg.RequestRate),
		player:          cfg.Player,
	}, nil
}

// Transcribe uploads audio and returns the recognised text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "input.wav"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("model", c.transcribeModel); err != nil {
		return "", fmt.Errorf("write form: %w", err)
	}
	if err := form.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("write form: %w", err)
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("write form: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("write form: %w", err)
	}

	respBody, err := c.do(ctx, "/audio/transcriptions", form.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("openai error: %s: %w", result.Error.Message, domain.ErrSpeechUnrecognised)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", fmt.Errorf("empty transcript: %w", domain.ErrSpeechUnrecognised)
	}
	logger.Debug("Transcribed %s: %q", filename, text)
	return text, nil
}

// Speak synthesises text and plays it.
func (c *Client) Speak(ctx context.Context, text string) error {
	if c.player == nil {
		return fmt.Errorf("openai: no audio player configured: %w", domain.ErrVoiceDisabled)
	}

	payload, err := json.Marshal(speechRequest{
		Model:          c.speechModel,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: speechFormat,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	audio, err := c.do(ctx, "/audio/speech", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}

	return c.player.Play(ctx, bytes.NewReader(audio), speechFilename)
}

// do sends one throttled request and returns the response body.
// Transport failures, throttling and server errors wrap
// domain.ErrSpeechUnavailable; other client errors wrap
// domain.ErrSpeechUnrecognised.
func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w: %w", domain.ErrSpeechUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w: %w", domain.ErrSpeechUnavailable, err)
	}
	defer resp.Body.Close()
	c.limiter.Update(resp)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w: %w", domain.ErrSpeechUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var wrapped struct {
		Error *apiError `json:"error"`
	}
	if json.Unmarshal(body, &wrapped) == nil && wrapped.Error != nil {
		msg = wrapped.Error.Message
	}

	sentinel := domain.ErrSpeechUnrecognised
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError ||
		status == http.StatusUnauthorized || status == http.StatusForbidden {
		sentinel = domain.ErrSpeechUnavailable
	}
	return fmt.Errorf("openai error (status %d): %s: %w", status, msg, sentinel)
}
