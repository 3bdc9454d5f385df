// Package cli provides a line mode driver for trying the completion model in a terminal.
//
// The first line typed opens a completion request for the word at its end. Every
// following line is treated as the edited text and fed to the model as a change,
// so typing a longer version of the line narrows the candidates.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/completer/internal/utils"
	"github.com/bastiangx/completer/pkg/completer"
	"github.com/bastiangx/completer/pkg/suggest"
	"github.com/charmbracelet/log"
)

// fetchLimit bounds how many dictionary words a request pulls in.
const fetchLimit = 1000

// InputHandler reads lines and prints the model's ranked view after each one.
type InputHandler struct {
	model        *completer.Model
	provider     suggest.Provider
	renderer     *Renderer
	limit        int
	in           io.Reader
	out          io.Writer
	requestCount int
}

// NewInputHandler wires a handler around model. The model should be built with
// WithMarker(renderer.Mark) so highlighted labels match the output.
func NewInputHandler(model *completer.Model, provider suggest.Provider, renderer *Renderer, limit int, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		model:    model,
		provider: provider,
		renderer: renderer,
		limit:    limit,
		in:       in,
		out:      out,
	}
}

// Start runs the prompt loop until the input ends or ctx is cancelled.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, "completer CLI")
	if h.provider != nil {
		words := h.provider.Stats()["totalWords"]
		fmt.Fprintf(h.out, "%s words loaded\n", utils.FormatWithCommas(words))
	}
	fmt.Fprintln(h.out, "type something and press Enter, :accept N to pick, :reset to start over (Ctrl+D to exit)")

	scanner := bufio.NewScanner(h.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(h.out)
			return nil
		}
		h.HandleLine(strings.TrimRight(scanner.Text(), "\r"))
	}
}

// HandleLine processes one typed line or command.
func (h *InputHandler) HandleLine(line string) {
	h.requestCount++
	switch {
	case strings.TrimSpace(line) == "":
		return
	case line == ":reset":
		h.model.SetOriginal(nil)
		fmt.Fprintln(h.out, "session closed")
		return
	case strings.HasPrefix(line, ":accept"):
		h.accept(strings.TrimSpace(strings.TrimPrefix(line, ":accept")))
		return
	}

	start := time.Now()
	if h.model.Original() == nil {
		h.open(line)
	} else {
		h.model.HandleTextChange(completer.StateAt(line, len([]rune(line))))
		if h.model.Original() == nil {
			log.Debug("Edit left the completion token, reopening", "line", line)
			h.open(line)
		}
	}
	log.Debugf("Took [ %v ] for request %d", time.Since(start), h.requestCount)

	h.printItems()
}

// open starts a request with the cursor at the end of line.
func (h *InputHandler) open(line string) {
	state := completer.StateAt(line, len([]rune(line)))
	span := completer.WordSpan(line, state.Offset())

	h.model.SetOriginal(&state)
	h.model.SetCursor(&span)
	if h.provider != nil {
		prefix := string([]rune(line)[span.Start:span.End])
		h.model.SetItems(h.provider.Complete(prefix, fetchLimit))
	}
}

func (h *InputHandler) accept(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		log.Errorf("Usage: :accept N (%v)", err)
		return
	}
	items := h.model.Items().Items
	if n < 1 || n > len(items) {
		log.Errorf("No item %d, there are %d", n, len(items))
		return
	}

	value := items[n-1].Text()
	patch, ok := h.model.CreatePatch(value)
	if !ok {
		log.Error("No active completion session")
		return
	}
	original := h.model.Original()
	fmt.Fprintf(h.out, "replace [%d, %d) with %q\n", patch.Start, patch.End, patch.Value)
	fmt.Fprintln(h.out, ApplyPatch(original.Text, patch))
	h.model.SetOriginal(nil)
}

func (h *InputHandler) printItems() {
	list := h.model.Items()
	if len(list.Items) == 0 {
		log.Warnf("No suggestions for query '%s'", h.model.Query())
		return
	}

	shown := list.Items
	if h.limit > 0 && len(shown) > h.limit {
		shown = shown[:h.limit]
	}
	fmt.Fprintf(h.out, "%d of %d candidates for query '%s':\n", len(shown), len(list.Items), h.model.Query())
	for i, it := range shown {
		fmt.Fprintf(h.out, "%s %s %s\n", h.renderer.Index(i+1), it.Label, h.renderer.Detail(it.Type, it.Documentation))
	}
	if list.IsIncomplete {
		fmt.Fprintln(h.out, "(more candidates available)")
	}
}

// ApplyPatch replaces the patch range of text, counted in runes.
func ApplyPatch(text string, patch completer.Patch) string {
	runes := []rune(text)
	start := min(max(patch.Start, 0), len(runes))
	end := min(max(patch.End, start), len(runes))
	return string(runes[:start]) + patch.Value + string(runes[end:])
}
