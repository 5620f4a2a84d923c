// Package command provides speech adapters that run local programs.
//
// Command lines are templates split on whitespace. Placeholders:
//
//	{text}  the text to speak
//	{rate}  speaking rate in words per minute
//	{file}  path of an audio file
//
// A template without {text} receives the text on standard input.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure adapters implement the interfaces.
var (
	_ driven.SpeechSynthesizer = (*Synthesizer)(nil)
	_ driven.SpeechRecognizer  = (*Recognizer)(nil)
)

// Placeholders recognised in command templates.
const (
	placeholderText = "{text}"
	placeholderRate = "{rate}"
	placeholderFile = "{file}"
)

// runner executes a program. Tests replace it.
type runner func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

func execRunner(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Template is a parsed command line.
type Template struct {
	fields []string
}

// ParseTemplate splits a command line template.
func ParseTemplate(line string) (Template, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Template{}, fmt.Errorf("empty command: %w", domain.ErrInvalidInput)
	}
	return Template{fields: fields}, nil
}

// Has reports whether the template uses a placeholder.
func (t Template) Has(placeholder string) bool {
	for _, f := range t.fields {
		if strings.Contains(f, placeholder) {
			return true
		}
	}
	return false
}

// Expand substitutes placeholder/value pairs and returns the program and
// arguments. Each field expands to exactly one argument, so values are
// never re-split or interpreted by a shell.
func (t Template) Expand(pairs ...string) (string, []string) {
	r := strings.NewReplacer(pairs...)
	out := make([]string, len(t.fields))
	for i, f := range t.fields {
		out[i] = r.Replace(f)
	}
	return out[0], out[1:]
}

// Synthesizer speaks text with a local text-to-speech program such as espeak.
type Synthesizer struct {
	template Template
	rate     int
	run      runner
}

// NewSynthesizer creates a synthesizer from a command template.
func NewSynthesizer(line string, rate int) (*Synthesizer, error) {
	tmpl, err := ParseTemplate(line)
	if err != nil {
		return nil, fmt.Errorf("speak command: %w", err)
	}
	if rate <= 0 {
		rate = domain.DefaultSpeechRate
	}
	return &Synthesizer{template: tmpl, rate: rate, run: execRunner}, nil
}

// Speak runs the program and waits for it to finish.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	name, args := s.template.Expand(
		placeholderText, text,
		placeholderRate, strconv.Itoa(s.rate),
	)

	var stdin io.Reader
	if !s.template.Has(placeholderText) {
		stdin = strings.NewReader(text)
	}

	logger.Debug("Speaking with %s", name)
	if _, err := s.run(ctx, name, args, stdin); err != nil {
		return classify(name, err)
	}
	return nil
}

// Recognizer transcribes audio with a local speech-to-text program.
type Recognizer struct {
	template Template
	tempDir  string
	run      runner
}

// NewRecognizer creates a recognizer from a command template.
// Templates without {file} receive the audio on standard input.
func NewRecognizer(line string) (*Recognizer, error) {
	tmpl, err := ParseTemplate(line)
	if err != nil {
		return nil, fmt.Errorf("transcribe command: %w", err)
	}
	return &Recognizer{template: tmpl, run: execRunner}, nil
}

// Transcribe runs the program and returns its standard output.
func (r *Recognizer) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	var (
		stdin io.Reader
		file  string
	)

	if r.template.Has(placeholderFile) {
		path, cleanup, err := spool(audio, r.tempDir, filename)
		if err != nil {
			return "", err
		}
		defer cleanup()
		file = path
	} else {
		stdin = audio
	}

	name, args := r.template.Expand(placeholderFile, file)
	out, err := r.run(ctx, name, args, stdin)
	if err != nil {
		return "", classify(name, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("%s produced no transcript: %w", name, domain.ErrSpeechUnrecognised)
	}
	return text, nil
}

// Player plays audio files with a local program.
type Player struct {
	template Template
	tempDir  string
	run      runner
}

// NewPlayer creates a player from a command template.
func NewPlayer(line string) (*Player, error) {
	tmpl, err := ParseTemplate(line)
	if err != nil {
		return nil, fmt.Errorf("play command: %w", err)
	}
	return &Player{template: tmpl, run: execRunner}, nil
}

// Play writes the audio to a temporary file (when the template asks for
// one) and runs the player until playback ends.
func (p *Player) Play(ctx context.Context, audio io.Reader, filename string) error {
	var (
		stdin io.Reader
		file  string
	)

	if p.template.Has(placeholderFile) {
		path, cleanup, err := spool(audio, p.tempDir, filename)
		if err != nil {
			return err
		}
		defer cleanup()
		file = path
	} else {
		stdin = audio
	}

	name, args := p.template.Expand(placeholderFile, file)
	if _, err := p.run(ctx, name, args, stdin); err != nil {
		return classify(name, err)
	}
	return nil
}

// spool copies audio into a temporary file keeping filename's extension.
func spool(audio io.Reader, dir, filename string) (string, func(), error) {
	f, err := os.CreateTemp(dir, "tutorbot-*"+filepath.Ext(filename))
	if err != nil {
		return "", nil, fmt.Errorf("create audio file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := io.Copy(f, audio); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close audio file: %w", err)
	}
	return f.Name(), cleanup, nil
}

// classify maps a missing program to ErrSpeechUnavailable.
func classify(name string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w: %w", name, domain.ErrSpeechUnavailable, err)
	}
	return fmt.Errorf("%s: %w", name, err)
}
