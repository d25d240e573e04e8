package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bastiangx/ngserve/internal/utils"
	"github.com/bastiangx/ngserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// handler holds the transport independent request logic shared by the
// IPC loop and the HTTP routes.
type handler struct {
	engine   Engine
	maxLimit int
	logger   *log.Logger
}

// complete runs one completion request. A panic inside the engine is turned
// into a CompletionError.
func (h *handler) complete(req Request) (resp CompletionResponse, cerr *CompletionError) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorf("Recovered from panic in request %s: %v", req.ID, r)
			cerr = &CompletionError{ID: req.ID, Error: fmt.Sprintf("internal error: %v", r), Code: http.StatusInternalServerError}
		}
	}()

	cursors := req.Cursors
	if len(cursors) == 0 {
		cursors = []int{len([]rune(req.Text))}
	}
	limit := utils.ClampLimit(req.Limit, h.maxLimit)

	start := time.Now()
	completions := h.engine.ProvideCompletions(cursors, suggest.NewStringBuffer(req.Text))
	elapsed := time.Since(start)

	if limit > 0 && len(completions) > limit {
		completions = completions[:limit]
	}
	ranks := utils.CreateRankList(len(completions))
	suggestions := make([]CompletionSuggestion, len(completions))
	for i, c := range completions {
		suggestions[i] = CompletionSuggestion{
			Display: c.Display,
			Insert:  c.Insert,
			Rank:    ranks[i],
		}
	}

	h.logger.Debugf("Request %s: %d suggestions in %v", req.ID, len(suggestions), elapsed)
	return CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}, nil
}

func (h *handler) stats(id string) StatsResponse {
	return StatsResponse{
		ID:     id,
		Status: "ok",
		Stats:  h.engine.Stats(),
	}
}
