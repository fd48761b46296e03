// Package render prints conversation turns to a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"github.com/matiasleandrokruk/relaychat/internal/domain/chat"
)

const wordWrap = 80

// Renderer writes messages to out, formatting assistant markdown when out is a terminal.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

// New returns a Renderer for out. Markdown styling is enabled only when out is a TTY,
// so piped output stays plain.
func New(out io.Writer) *Renderer {
	r := &Renderer{out: out}
	if isTerminal(out) {
		r.markdown = newMarkdown(glamour.WithAutoStyle())
	}
	return r
}

func newMarkdown(style glamour.TermRendererOption) *glamour.TermRenderer {
	tr, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil
	}
	return tr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Message prints one turn.
func (r *Renderer) Message(m chat.Message) {
	switch m.Role {
	case chat.RoleAssistant:
		fmt.Fprintf(r.out, "assistant:\n%s\n", r.markdownOrPlain(m.Content)) //nolint:errcheck
	default:
		fmt.Fprintf(r.out, "%s: %s\n", m.Role, m.Content) //nolint:errcheck
	}
}

// Conversation prints every turn in order, or a placeholder when empty.
func (r *Renderer) Conversation(msgs []chat.Message) {
	if len(msgs) == 0 {
		fmt.Fprintln(r.out, "(no messages)") //nolint:errcheck
		return
	}
	for _, m := range msgs {
		r.Message(m)
	}
}

// Error prints a failed exchange.
func (r *Renderer) Error(msg string) {
	fmt.Fprintf(r.out, "error: %s\n", msg) //nolint:errcheck
}

// Info prints a status line.
func (r *Renderer) Info(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...) //nolint:errcheck
}

func (r *Renderer) markdownOrPlain(content string) string {
	if r.markdown == nil {
		return content
	}
	styled, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(styled, "\n")
}
