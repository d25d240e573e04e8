package suggest

import (
	"fmt"
	"sort"
	"time"

	"github.com/bastiangx/ngserve/internal/logger"
	"github.com/bastiangx/ngserve/internal/utils"
	"github.com/bastiangx/ngserve/pkg/fuzzy"
	"github.com/bastiangx/ngserve/pkg/ngram"
	"github.com/charmbracelet/log"
)

const (
	DefaultHighestN        = 3
	DefaultMaxScanAttempts = 100
	DefaultScanStep        = 1
)

// Completion is a single candidate as handed to the host.
// Insert is Display with every '$' escaped for snippet syntax.
type Completion struct {
	Display string `json:"display" msgpack:"d"`
	Insert  string `json:"insert" msgpack:"i"`
}

// Options controls how the engine is built and how far it scans back.
type Options struct {
	HighestN        int
	MaxScanAttempts int
	ScanStep        int
	BloomFPRate     float64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		HighestN:        DefaultHighestN,
		MaxScanAttempts: DefaultMaxScanAttempts,
		ScanStep:        DefaultScanStep,
		BloomFPRate:     ngram.DefaultFalsePositiveRate,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxScanAttempts <= 0 {
		o.MaxScanAttempts = DefaultMaxScanAttempts
	}
	if o.ScanStep <= 0 {
		o.ScanStep = DefaultScanStep
	}
	if o.BloomFPRate <= 0 || o.BloomFPRate >= 1 {
		o.BloomFPRate = ngram.DefaultFalsePositiveRate
	}
	return o
}

// Window is the token context found before a cursor.
type Window struct {
	// Tokens are the complete tokens before the cursor, oldest first.
	Tokens ngram.Context
	// Unfinished is the partially typed token at the cursor, if any.
	Unfinished string
}

// HasUnfinished reports whether the cursor sits inside a token.
func (w Window) HasUnfinished() bool {
	return w.Unfinished != ""
}

// Stats describes a built engine.
type Stats struct {
	Tokens     int                `json:"tokens" msgpack:"t"`
	Vocabulary int                `json:"vocabulary" msgpack:"v"`
	HighestN   int                `json:"highest_n" msgpack:"n"`
	Models     []ngram.ModelStats `json:"models" msgpack:"m"`
}

// Engine owns one model per order, highest order first.
// It is immutable once built and safe for concurrent queries.
type Engine struct {
	vocab  *ngram.Vocabulary
	models []*ngram.Model
	opts   Options
	tokens int
	logger *log.Logger
}

// NewEngine builds models of order opts.HighestN down to 1 over corpus.
func NewEngine(corpus []string, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if opts.HighestN < 1 {
		return nil, fmt.Errorf("invalid highest_n: %w", ngram.ErrInvalidOrder)
	}

	e := &Engine{
		vocab:  ngram.NewVocabulary(),
		models: make([]*ngram.Model, 0, opts.HighestN),
		opts:   opts,
		tokens: len(corpus),
		logger: logger.New("ngram"),
	}

	ids := e.vocab.Encode(corpus)
	for n := opts.HighestN; n >= 1; n-- {
		start := time.Now()
		m, err := ngram.BuildIDs(e.vocab, ids, n, opts.BloomFPRate)
		if err != nil {
			return nil, fmt.Errorf("failed to build order %d model: %w", n, err)
		}
		stats := m.Stats()
		e.logger.Debugf("Built order %d model: %s contexts, %s entries in %v",
			n, utils.FormatWithCommas(stats.Contexts), utils.FormatWithCommas(stats.Entries), time.Since(start))
		e.models = append(e.models, m)
	}
	return e, nil
}

// Vocabulary exposes the interned corpus tokens.
func (e *Engine) Vocabulary() *ngram.Vocabulary {
	return e.vocab
}

// Stats returns statistics about the loaded models
func (e *Engine) Stats() Stats {
	s := Stats{
		Tokens:     e.tokens,
		Vocabulary: e.vocab.Len(),
		HighestN:   e.opts.HighestN,
		Models:     make([]ngram.ModelStats, 0, len(e.models)),
	}
	for _, m := range e.models {
		s.Models = append(s.Models, m.Stats())
	}
	return s
}

// ExtractContext scans backward from cursor, widening the read by ScanStep per
// attempt starting from an empty read, until more than HighestN+1 tokens are in
// view. The leftmost token may be cut by the scan edge and is always dropped,
// so a buffer holding HighestN+1 tokens or fewer exhausts the budget. When the
// character before the cursor is not whitespace the last token is moved out of
// the context and returned as Unfinished. ok is false when the scan budget runs
// out or no context token is left.
func (e *Engine) ExtractContext(cursor int, buf Buffer) (Window, bool) {
	if cursor <= 0 {
		return Window{}, false
	}
	unfinished := !utils.EndsWithBlank(buf.Substr(cursor-1, cursor))

	need := e.opts.HighestN + 1
	var tokens []string
	for attempt := 0; len(tokens) <= need; attempt++ {
		if attempt >= e.opts.MaxScanAttempts {
			e.logger.Debugf("No context after %d scan attempts at offset %d", e.opts.MaxScanAttempts, cursor)
			return Window{}, false
		}
		start := cursor - attempt*e.opts.ScanStep
		if start < 0 {
			start = 0
		}
		tokens = utils.SplitTokens(buf.Substr(start, cursor))
	}
	tokens = tokens[1:]

	var w Window
	if unfinished && len(tokens) > 0 {
		w.Unfinished = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return w, false
	}
	w.Tokens = ngram.Context(tokens)
	return w, true
}

// ProvideCompletions implements Provider.
func (e *Engine) ProvideCompletions(cursors []int, buf Buffer) []Completion {
	return e.Complete(cursors, buf)
}

// Complete returns ranked, de-duplicated completions for a single cursor.
// Requests with any other number of cursors get nothing.
func (e *Engine) Complete(cursors []int, buf Buffer) (completions []Completion) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("Recovered while completing: %v", r)
			completions = nil
		}
	}()

	if len(cursors) != 1 || buf == nil {
		return nil
	}
	w, ok := e.ExtractContext(cursors[0], buf)
	if !ok {
		return nil
	}
	return e.Rank(w)
}

// Rank queries every model with the tail of w and orders the candidates.
//
// Each model contributes its followers in ascending count order, ties by
// token text, highest order first. With an unfinished token the whole list
// is then stably sorted by edit distance to it. Repeated pairs keep their
// first position.
func (e *Engine) Rank(w Window) []Completion {
	var candidates []Completion
	for _, m := range e.models {
		ctx := w.Tokens.Last(m.Order())
		if ctx == nil {
			continue
		}
		for _, token := range byCount(m.Get(ctx)) {
			candidates = append(candidates, Completion{
				Display: token,
				Insert:  utils.EscapeSnippet(token),
			})
		}
	}

	if w.HasUnfinished() {
		fuzzy.SortByDistance(candidates, w.Unfinished, func(c Completion) string {
			return c.Display
		})
	}

	filter := utils.NewPairFilter(len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		if filter.ShouldInclude(utils.Pair{Display: c.Display, Insert: c.Insert}) {
			unique = append(unique, c)
		}
	}
	return unique
}

func byCount(counts map[string]int) []string {
	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] < counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}
