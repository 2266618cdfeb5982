// Package term is the interactive surface of the resolution loop: styled
// lines out, one key press in.
package term

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Decision is the outcome of one interactive prompt.
type Decision int

const (
	DecisionConfirm Decision = iota
	DecisionSkip
	DecisionAbort
)

// Terminal is the minimal interactive surface needed during resolution.
type Terminal interface {
	WriteLine(s string) error
	ReadKey() (rune, error)
}

// Styling helpers for prompt lines.
var (
	Accent = color.New(color.FgCyan).SprintFunc()
	Alert  = color.New(color.FgRed).SprintFunc()
	Muted  = color.New(color.FgMagenta).SprintFunc()
)

// Stdio implements Terminal on the process tty. ReadKey blocks the whole
// process; this is the only suspension point of a run.
type Stdio struct{}

func (Stdio) WriteLine(s string) error {
	_, err := fmt.Fprintln(os.Stdout, s)
	return err
}

func (Stdio) ReadKey() (rune, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return 0, fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, old) //nolint:errcheck

	var buf [1]byte
	if _, err := os.Stdin.Read(buf[:]); err != nil {
		return 0, err
	}
	return rune(buf[0]), nil
}

const keyEscape = '\x1b'

// ReadDecision blocks until a key mapped to a decision is pressed. Keys:
// y/Y/Enter confirm, n/N skip, a/A/Escape abort. Anything else re-reads.
func ReadDecision(t Terminal) (Decision, error) {
	for {
		key, err := t.ReadKey()
		if err != nil {
			return DecisionAbort, err
		}
		switch key {
		case 'y', 'Y', '\r', '\n':
			return DecisionConfirm, nil
		case 'n', 'N':
			return DecisionSkip, nil
		case 'a', 'A', keyEscape:
			return DecisionAbort, nil
		}
	}
}
