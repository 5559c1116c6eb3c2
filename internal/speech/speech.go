// Package speech reads words aloud through an external text-to-speech program.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/example/vocabdrill/internal/config"
)

// Speaker pronounces text
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Nop is a Speaker that stays silent
type Nop struct{}

// Speak does nothing
func (Nop) Speak(context.Context, string) error { return nil }

// Command runs an external program with the text appended as the last argument,
// e.g. `say -v Samantha apple` or `espeak apple`.
type Command struct {
	Path string
	Args []string
}

// NewCommand resolves name on PATH
func NewCommand(name string, args ...string) (*Command, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("speech command %q not found: %w", name, err)
	}
	return &Command{Path: path, Args: args}, nil
}

// Speak runs the command and waits for it to finish
func (c *Command) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	args := append(append([]string(nil), c.Args...), text)
	out, err := exec.CommandContext(ctx, c.Path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("speech command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Lazy builds its Speaker on first use. The constructor runs at most once
// and its error is returned from every later call.
type Lazy struct {
	newSpeaker func() (Speaker, error)

	once    sync.Once
	speaker Speaker
	err     error
}

// NewLazy wraps a constructor
func NewLazy(newSpeaker func() (Speaker, error)) *Lazy {
	return &Lazy{newSpeaker: newSpeaker}
}

// Speak initialises the underlying Speaker if needed and delegates to it
func (l *Lazy) Speak(ctx context.Context, text string) error {
	l.once.Do(func() {
		l.speaker, l.err = l.newSpeaker()
	})
	if l.err != nil {
		return l.err
	}
	return l.speaker.Speak(ctx, text)
}

// FromConfig returns Nop when no command is configured, otherwise a Lazy
// Command so a missing program only surfaces when speech is first needed.
func FromConfig(cfg config.SpeechConfig) Speaker {
	if strings.TrimSpace(cfg.Command) == "" {
		return Nop{}
	}
	return NewLazy(func() (Speaker, error) {
		return NewCommand(cfg.Command, cfg.Args...)
	})
}
