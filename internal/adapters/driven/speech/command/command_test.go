package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// recordingRunner captures invocations instead of executing programs.
type recordingRunner struct {
	name     string
	args     []string
	stdin    string
	fileBody string
	out      string
	err      error
}

func (r *recordingRunner) run(_ context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	r.name = name
	r.args = args
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		r.stdin = string(b)
	}
	for _, a := range args {
		if b, err := os.ReadFile(a); err == nil {
			r.fileBody = string(b)
		}
	}
	return []byte(r.out), r.err
}

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("  espeak  -s {rate} {text} ")
	require.NoError(t, err)
	assert.True(t, tmpl.Has("{text}"))
	assert.False(t, tmpl.Has("{file}"))

	name, args := tmpl.Expand("{rate}", "175", "{text}", "hello world")
	assert.Equal(t, "espeak", name)
	assert.Equal(t, []string{"-s", "175", "hello world"}, args)

	_, err = ParseTemplate("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTemplate_ExpandIsSinglePass(t *testing.T) {
	tmpl, err := ParseTemplate("say {text}")
	require.NoError(t, err)

	_, args := tmpl.Expand("{text}", "literal {rate}", "{rate}", "175")

	assert.Equal(t, []string{"literal {rate}"}, args)
}

func TestSynthesizer_Speak_WithTextPlaceholder(t *testing.T) {
	synth, err := NewSynthesizer(domain.DefaultSpeakCommand, 0)
	require.NoError(t, err)
	rec := &recordingRunner{}
	synth.run = rec.run

	require.NoError(t, synth.Speak(context.Background(), "Switched to JAVA mode!"))

	assert.Equal(t, "espeak", rec.name)
	assert.Equal(t, []string{"-s", "175", "Switched to JAVA mode!"}, rec.args)
	assert.Empty(t, rec.stdin)
}

func TestSynthesizer_Speak_PipesTextWithoutPlaceholder(t *testing.T) {
	synth, err := NewSynthesizer("festival --tts", 120)
	require.NoError(t, err)
	rec := &recordingRunner{}
	synth.run = rec.run

	require.NoError(t, synth.Speak(context.Background(), "Greetings!"))

	assert.Equal(t, []string{"--tts"}, rec.args)
	assert.Equal(t, "Greetings!", rec.stdin)
}

func TestSynthesizer_Speak_MissingProgram(t *testing.T) {
	synth, err := NewSynthesizer("espeak {text}", 175)
	require.NoError(t, err)
	synth.run = (&recordingRunner{err: exec.ErrNotFound}).run

	err = synth.Speak(context.Background(), "hi")

	assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)
}

func TestRecognizer_Transcribe_File(t *testing.T) {
	rec, err := NewRecognizer("whisper-cli -f {file}")
	require.NoError(t, err)
	rec.tempDir = t.TempDir()
	runner := &recordingRunner{out: "  what is a tuple \n"}
	rec.run = runner.run

	text, err := rec.Transcribe(context.Background(), strings.NewReader("RIFF-audio"), "input.wav")

	require.NoError(t, err)
	assert.Equal(t, "what is a tuple", text)
	require.Len(t, runner.args, 2)
	assert.True(t, strings.HasSuffix(runner.args[1], ".wav"))
	assert.Equal(t, "RIFF-audio", runner.fileBody)

	// The spooled file is removed afterwards.
	_, statErr := os.Stat(runner.args[1])
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRecognizer_Transcribe_Stdin(t *testing.T) {
	rec, err := NewRecognizer("vosk-transcriber")
	require.NoError(t, err)
	runner := &recordingRunner{out: "hello"}
	rec.run = runner.run

	text, err := rec.Transcribe(context.Background(), strings.NewReader("pcm"), "a.raw")

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "pcm", runner.stdin)
}

func TestRecognizer_Transcribe_Errors(t *testing.T) {
	rec, err := NewRecognizer("stt")
	require.NoError(t, err)

	rec.run = (&recordingRunner{out: "  "}).run
	_, err = rec.Transcribe(context.Background(), strings.NewReader(""), "a.wav")
	assert.ErrorIs(t, err, domain.ErrSpeechUnrecognised)

	rec.run = (&recordingRunner{err: exec.ErrNotFound}).run
	_, err = rec.Transcribe(context.Background(), strings.NewReader(""), "a.wav")
	assert.ErrorIs(t, err, domain.ErrSpeechUnavailable)

	rec.run = (&recordingRunner{err: errors.New("exit status 2")}).run
	_, err = rec.Transcribe(context.Background(), strings.NewReader(""), "a.wav")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSpeechUnavailable)
}

func TestPlayer_Play(t *testing.T) {
	player, err := NewPlayer(domain.DefaultPlayCommand)
	require.NoError(t, err)
	player.tempDir = t.TempDir()
	runner := &recordingRunner{}
	player.run = runner.run

	require.NoError(t, player.Play(context.Background(), strings.NewReader("wavdata"), "reply.wav"))

	assert.Equal(t, "ffplay", runner.name)
	assert.Equal(t, "wavdata", runner.fileBody)
}

func TestNewConstructors_RejectEmpty(t *testing.T) {
	_, err := NewSynthesizer("", 175)
	assert.Error(t, err)
	_, err = NewRecognizer("")
	assert.Error(t, err)
	_, err = NewPlayer("")
	assert.Error(t, err)
}
