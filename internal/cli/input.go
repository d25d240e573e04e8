// Package cli handles cmd line input and completions for DBG and testing the engine
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/ngserve/internal/utils"
	"github.com/bastiangx/ngserve/pkg/ngram"
	"github.com/bastiangx/ngserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var displayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// Engine is what the CLI needs from the completion engine.
type Engine interface {
	suggest.Provider
	Stats() suggest.Stats
	Vocabulary() *ngram.Vocabulary
}

// InputHandler reads lines from stdin and prints completions for each one.
// Every line is treated as a whole buffer with the cursor at its end, so a
// trailing space asks for the next token and anything else completes the
// partial token.
//
// Lines starting with ':' are commands:
//
//	:stats          model statistics
//	:vocab <prefix> corpus tokens starting with prefix
//	:q              quit
type InputHandler struct {
	engine       Engine
	suggestLimit int
	reader       *bufio.Reader
	out          *log.Logger
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine Engine, limit int) *InputHandler {
	return NewInputHandlerWithIO(engine, limit, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO is NewInputHandler over arbitrary streams.
func NewInputHandlerWithIO(engine Engine, limit int, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		engine:       engine,
		suggestLimit: limit,
		reader:       bufio.NewReader(r),
		out: log.NewWithOptions(w, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
		}),
	}
}

// Start begins the interface loop.
// It returns nil at end of input or on :q.
func (h *InputHandler) Start() error {
	h.out.Print("ngserve CLI [BETA]")
	h.out.Print("type some text and press Enter to complete at its end (a trailing space asks for the next token, :q to exit):")

	for {
		h.out.Print("> ")
		line, err := h.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			if quit := h.handleInput(line); quit {
				return nil
			}
		}
		if eof {
			return nil
		}
	}
}

// handleInput runs a command or a completion. It returns true to quit.
func (h *InputHandler) handleInput(line string) bool {
	if strings.HasPrefix(line, ":") {
		return h.handleCommand(strings.Fields(line))
	}

	h.requestCount++
	buf := suggest.NewStringBuffer(line)
	start := time.Now()
	completions := h.engine.ProvideCompletions([]int{buf.Len()}, buf)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for request #%d", elapsed, h.requestCount)

	if len(completions) == 0 {
		h.out.Warnf("No completions for: '%s'", line)
		return false
	}
	if h.suggestLimit > 0 && len(completions) > h.suggestLimit {
		completions = completions[:h.suggestLimit]
	}

	h.out.Printf("Found %d completions for '%s':", len(completions), line)
	for i, c := range completions {
		if c.Insert != c.Display {
			h.out.Printf("%2d. %-30s (insert: %s)", i+1, displayStyle.Render(c.Display), c.Insert)
			continue
		}
		h.out.Printf("%2d. %s", i+1, displayStyle.Render(c.Display))
	}
	return false
}

func (h *InputHandler) handleCommand(fields []string) bool {
	switch fields[0] {
	case ":q", ":quit":
		return true
	case ":stats":
		stats := h.engine.Stats()
		h.out.Printf("corpus: %s tokens, %s distinct", utils.FormatWithCommas(stats.Tokens), utils.FormatWithCommas(stats.Vocabulary))
		for _, m := range stats.Models {
			h.out.Printf("order %d: %s contexts, %s entries",
				m.Order, utils.FormatWithCommas(m.Contexts), utils.FormatWithCommas(m.Entries))
		}
	case ":vocab":
		prefix := ""
		if len(fields) > 1 {
			prefix = fields[1]
		}
		tokens := h.engine.Vocabulary().WithPrefix(prefix, h.suggestLimit)
		if len(tokens) == 0 {
			h.out.Warnf("No corpus tokens start with '%s'", prefix)
			return false
		}
		h.out.Print(strings.Join(tokens, "  "))
	default:
		h.out.Errorf("Unknown command: %s", fields[0])
	}
	return false
}
