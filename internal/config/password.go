package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordPrompter reads one or more passwords from r, echoing prompts to
// w. Construct one per command invocation and call Prompt once per
// password: a single buffered reader is held for the prompter's lifetime,
// so a second Prompt call picks up exactly where the first left off
// instead of re-wrapping r (and losing whatever it had already read ahead).
type PasswordPrompter struct {
	w        io.Writer
	terminal *os.File
	buffered *bufio.Reader
}

// NewPasswordPrompter builds a prompter over r. When r is an *os.File
// connected to a terminal, Prompt reads through term.ReadPassword (no
// echo); otherwise it reads buffered lines, the form tests inject via a
// bytes.Buffer or strings.Reader.
func NewPasswordPrompter(w io.Writer, r io.Reader) *PasswordPrompter {
	p := &PasswordPrompter{w: w}
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.terminal = f
		return p
	}
	p.buffered = bufio.NewReader(r)
	return p
}

// Prompt writes prompt to w and reads one password.
func (p *PasswordPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)

	if p.terminal != nil {
		password, err := term.ReadPassword(int(p.terminal.Fd()))
		fmt.Fprintln(p.w)
		if err != nil {
			return "", fmt.Errorf("config: reading password: %w", err)
		}
		return string(password), nil
	}

	line, err := p.buffered.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("config: reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
