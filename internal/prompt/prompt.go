// Package prompt implements the operator prompts the engine falls back
// to: a replacement locator during interactive repair, and values for
// fill/select actions that were not supplied programmatically.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/polzovatel/pagemap/internal/browser"
	"github.com/polzovatel/pagemap/internal/model"
)

// Terminal prompts on stdin/stdout. Show, when set, is called before
// the locator prompt to print candidate elements from the live page.
type Terminal struct {
	In   io.Reader
	Out  io.Writer
	Show func()

	reader *bufio.Reader
}

var _ model.Prompter = (*Terminal)(nil)

func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

// ModeAndValue asks for a replacement (mode, value) pair. An empty mode
// declines. Unknown modes are re-asked.
func (t *Terminal) ModeAndValue() (browser.Mode, string, bool) {
	if t.Show != nil {
		t.Show()
	}
	for {
		fmt.Fprintf(t.Out, "\nLocator mode (%s; empty to give up): ", modeList())
		line, err := t.readLine()
		if err != nil || line == "" {
			return "", "", false
		}
		mode := browser.Mode(line)
		if !mode.Known() {
			fmt.Fprintf(t.Out, "Unknown mode %q\n", line)
			continue
		}
		fmt.Fprint(t.Out, "Locator value: ")
		value, err := t.readLine()
		if err != nil || value == "" {
			return "", "", false
		}
		return mode, value, true
	}
}

func (t *Terminal) NamedValue(name string) (string, error) {
	fmt.Fprintf(t.Out, "\nValue for %q: ", name)
	return t.readLine()
}

func (t *Terminal) readLine() (string, error) {
	if t.reader == nil {
		t.reader = bufio.NewReader(t.In)
	}
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func modeList() string {
	names := make([]string, len(browser.Modes))
	for i, mode := range browser.Modes {
		names[i] = string(mode)
	}
	return strings.Join(names, "/")
}

// ScriptedLocator is one canned answer for a Scripted prompter.
type ScriptedLocator struct {
	Mode  browser.Mode
	Value string
}

// Scripted replays canned answers and then declines; tests use it in
// place of a live operator.
type Scripted struct {
	Locators []ScriptedLocator
	Values   map[string]string
}

var _ model.Prompter = (*Scripted)(nil)

func (s *Scripted) ModeAndValue() (browser.Mode, string, bool) {
	if len(s.Locators) == 0 {
		return "", "", false
	}
	next := s.Locators[0]
	s.Locators = s.Locators[1:]
	return next.Mode, next.Value, true
}

func (s *Scripted) NamedValue(name string) (string, error) {
	value, ok := s.Values[name]
	if !ok {
		return "", fmt.Errorf("no scripted value for %q", name)
	}
	return value, nil
}
