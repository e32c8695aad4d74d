// Package ux renders colored terminal messages and reads interactive input
// during metadata reconciliation.
package ux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, matching the rest of the tooling around the dataset.
var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

// Printer writes leveled messages to a terminal. A nil Printer and a quiet
// Printer both drop info-level output; warnings and errors always print.
type Printer struct {
	Out   io.Writer
	Quiet bool
}

// NewPrinter returns a Printer on stdout.
func NewPrinter() *Printer { return &Printer{Out: os.Stdout} }

func (p *Printer) write(s string) {
	if p == nil || p.Out == nil {
		return
	}
	fmt.Fprintln(p.Out, s)
}

// Plain prints an uncolored message unless quiet.
func (p *Printer) Plain(format string, args ...any) {
	if p == nil || p.Quiet {
		return
	}
	p.write(fmt.Sprintf(format, args...))
}

// Info prints an informational message unless quiet.
func (p *Printer) Info(format string, args ...any) {
	if p == nil || p.Quiet {
		return
	}
	p.write(infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a warning. Warnings are printed even when quiet.
func (p *Printer) Warn(format string, args ...any) {
	p.write(warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message. Errors are printed even when quiet.
func (p *Printer) Error(format string, args ...any) {
	p.write(errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Success prints a success message unless quiet.
func (p *Printer) Success(format string, args ...any) {
	if p == nil || p.Quiet {
		return
	}
	p.write(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Rule prints a section rule: the label left-justified and padded with the
// given filler to 80 columns.
func (p *Printer) Rule(label string, filler rune) {
	if p == nil || p.Quiet {
		return
	}
	if n := 80 - len(label); n > 0 {
		label += strings.Repeat(string(filler), n)
	}
	p.write(label)
}

// Prompter reads line-oriented answers. The reader is injectable so
// reconciliation stays scriptable in tests.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter returns a Prompter over the given reader and writer. Nil
// arguments default to stdin and stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints the label and returns the entered line with surrounding
// whitespace trimmed. EOF with no input returns an empty answer.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
