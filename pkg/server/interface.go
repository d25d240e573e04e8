/*
Package server exposes the completion engine to editors and other processes.

# IPC

The IPC server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. A ready message is written first:

	{"status": "ready"}

Completion requests carry the buffer text and the cursor offsets, counted in
characters. Without cursors the cursor is placed at the end of the text:

	{"id": "req_001", "a": "complete", "t": "so I pet the ca", "c": [15], "l": 10}

The server responds with ranked suggestions. "d" is the label to show and "i"
the text to insert, with every '$' escaped. "t" is the time taken in
microseconds:

	{"id": "req_001", "s": [{"d": "car", "i": "car", "r": 1}, {"d": "cat", "i": "cat", "r": 2}], "c": 2, "t": 38}

Requests with more than one cursor are answered with an empty suggestion list.

Other actions:

	{"id": "h1", "a": "health"}  ->  {"id": "h1", "status": "ok"}
	{"id": "s1", "a": "stats"}   ->  {"id": "s1", "status": "ok", "stats": {...}}

Failures are answered with a CompletionError and never stop the loop. Only
bytes that do not frame a msgpack value end the session.

# HTTP

When an address is configured the same requests are served as JSON by a gin
router under /api/v1.
*/
package server

import "github.com/bastiangx/ngserve/pkg/suggest"

const (
	ActionComplete = "complete"
	ActionHealth   = "health"
	ActionStats    = "stats"
)

// Engine is what the server needs from the completion engine.
type Engine interface {
	suggest.Provider
	Stats() suggest.Stats
}

// Request - a single completion, health or stats request
type Request struct {
	ID      string `msgpack:"id" json:"id,omitempty"`
	Action  string `msgpack:"a,omitempty" json:"action,omitempty"`
	Text    string `msgpack:"t" json:"text"`
	Cursors []int  `msgpack:"c,omitempty" json:"cursors,omitempty"`
	Limit   int    `msgpack:"l,omitempty" json:"limit,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Display string `msgpack:"d" json:"display"`
	Insert  string `msgpack:"i" json:"insert"`
	Rank    uint16 `msgpack:"r" json:"rank"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id" json:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s" json:"suggestions"`
	Count       int                    `msgpack:"c" json:"count"`
	TimeTaken   int64                  `msgpack:"t" json:"time_us"`
}

// StatusResponse answers ready and health messages.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty" json:"id,omitempty"`
	Status string `msgpack:"status" json:"status"`
}

// StatsResponse carries the engine statistics.
type StatsResponse struct {
	ID     string        `msgpack:"id" json:"id"`
	Status string        `msgpack:"status" json:"status"`
	Stats  suggest.Stats `msgpack:"stats" json:"stats"`
}

// CompletionError holds basic error information for completion requests
type CompletionError struct {
	ID    string `msgpack:"id" json:"id,omitempty"`
	Error string `msgpack:"e" json:"error"`
	Code  int    `msgpack:"c" json:"code"`
}
