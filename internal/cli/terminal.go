package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// Renderer decides how matched runs and list decorations are drawn. Color is only
// used when asked for and the output is a terminal.
type Renderer struct {
	color bool
}

// NewRenderer inspects out and returns a renderer for it.
func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{color: color && IsTerminal(out)}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Mark draws one matched run of a label.
func (r *Renderer) Mark(s string) string {
	if r.color {
		return matchStyle.Render(s)
	}
	return "[" + s + "]"
}

// Index draws the 1-based position of an item.
func (r *Renderer) Index(i int) string {
	s := fmt.Sprintf("%2d.", i)
	if r.color {
		return indexStyle.Render(s)
	}
	return s
}

// Detail draws the type and documentation of an item.
func (r *Renderer) Detail(kind, doc string) string {
	s := kind
	if doc != "" {
		if s != "" {
			s += ", "
		}
		s += doc
	}
	if s == "" {
		return ""
	}
	s = "(" + s + ")"
	if r.color {
		return typeStyle.Render(s)
	}
	return s
}
