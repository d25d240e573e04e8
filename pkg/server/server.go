package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bastiangx/ngserve/internal/logger"
	"github.com/bastiangx/ngserve/pkg/config"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for completions
type Server struct {
	handler
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	writer       *bufio.Writer
	requestCount int
}

// NewServer creates a new completion server using stdin/stdout for IPC
func NewServer(engine Engine, cfg *config.Config) *Server {
	return NewServerWithIO(engine, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO is NewServer over arbitrary streams.
func NewServerWithIO(engine Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bw := bufio.NewWriter(w)
	return &Server{
		handler: handler{
			engine:   engine,
			maxLimit: cfg.Server.MaxLimit,
			logger:   logger.New("server"),
		},
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		encoder: msgpack.NewEncoder(bw),
		writer:  bw,
	}
}

// Start begins listening for IPC requests. It returns nil when the input
// stream ends. A well-formed message that is not a request is answered with a
// CompletionError; only a malformed stream stops the loop.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")

	if err := s.sendResponse(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			// the stream position is unknown after a malformed frame
			s.logger.Errorf("Reading request: %v", err)
			_ = s.sendError("", "invalid msgpack stream", http.StatusBadRequest)
			return fmt.Errorf("failed to read request: %w", err)
		}

		var request Request
		if err := msgpack.Unmarshal(raw, &request); err != nil {
			s.logger.Warnf("Decoding request: %v", err)
			if err := s.sendError("", "invalid request: "+err.Error(), http.StatusBadRequest); err != nil {
				return err
			}
			continue
		}
		s.requestCount++
		if err := s.handleRequest(request); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the request action. Only write failures are
// returned.
func (s *Server) handleRequest(request Request) error {
	switch request.Action {
	case "", ActionComplete:
		response, cerr := s.complete(request)
		if cerr != nil {
			return s.sendResponse(cerr)
		}
		return s.sendResponse(response)
	case ActionHealth:
		return s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	case ActionStats:
		return s.sendResponse(s.stats(request.ID))
	default:
		s.logger.Debugf("Unknown action %q", request.Action)
		return s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), http.StatusBadRequest)
	}
}

// sendResponse encodes a single message and flushes it to the client.
func (s *Server) sendResponse(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.sendResponse(CompletionError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
