package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

type capturePlayer struct {
	audio    []byte
	filename string
}

func (p *capturePlayer) Play(_ context.Context, audio io.Reader, filename string) error {
	p.audio, _ = io.ReadAll(audio)
	p.filename = filename
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, player Player) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		RequestRate: 1000,
		Player:      player,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTranscribeModel, client.transcribeModel)
	assert.Equal(t, DefaultSpeechModel, client.speechModel)
	assert.Equal(t, DefaultVoice, client.voice)
	assert.Equal(t, DefaultTimeout, client.client.Timeout)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestClient_Transcribe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "input.wav", header.Filename)
		assert.Equal(t, "RIFFDATA", string(body))

		_ = json.NewEncoder(w).Encode(map[string]string{"text": " switch to python "})
	}, nil)

	text, err := client.Transcribe(context.Background(), strings.NewReader("RIFFDATA"), "input.wav")

	require.NoError(t, err)
	assert.Equal(t, "switch to python", text)
}

func TestClient_Transcribe_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"empty transcript", http.StatusOK, `{"text": ""}`, domain.ErrSpeechUnrecognised},
		{"bad audio", http.StatusBadRequest, `{"error": {"message": "invalid file format"}}`, domain.ErrSpeechUnrecognised},
		{"server error", http.StatusBadGateway, `oops`, domain.ErrSpeechUnavailable},
		{"unauthorised", http.StatusUnauthorized, `{"error": {"message": "bad key"}}`, domain.ErrSpeechUnavailable},
		{"throttled", http.StatusTooManyRequests, `{}`, domain.ErrSpeechUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			_, err := client.Transcribe(context.Background(), strings.NewReader("x"), "a.wav")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Transcribe_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), strings.NewReader("x"), "a.wav")
	assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)
}

func TestClient_Speak(t *testing.T) {
	player := &capturePlayer{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		var req speechRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tts-1", req.Model)
		assert.Equal(t, "Greetings!", req.Input)
		assert.Equal(t, "alloy", req.Voice)
		assert.Equal(t, "wav", req.ResponseFormat)
		_, _ = w.Write([]byte("WAVBYTES"))
	}, player)

	require.NoError(t, client.Speak(context.Background(), "Greetings!"))

	assert.Equal(t, "WAVBYTES", string(player.audio))
	assert.Equal(t, "reply.wav", player.filename)
}

func TestClient_Speak_NoPlayer(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)

	assert.ErrorIs(t, client.Speak(context.Background(), "hi"), domain.ErrVoiceDisabled)
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	limiter := NewRateLimiter(100)
	assert.True(t, limiter.RetryAfter().IsZero())

	limiter.Update(&http.Response{StatusCode: http.StatusOK, Header: http.Header{}})
	assert.True(t, limiter.RetryAfter().IsZero())

	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "30")
	limiter.Update(resp)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), limiter.RetryAfter(), 2*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx))
}

func TestRateLimiter_DefaultRate(t *testing.T) {
	limiter := NewRateLimiter(0)
	require.NoError(t, limiter.Wait(context.Background()))
}
