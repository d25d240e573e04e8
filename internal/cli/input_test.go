package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/ngserve/pkg/suggest"
)

func newTestHandler(t *testing.T, input string, limit int) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	opts := suggest.DefaultOptions()
	opts.HighestN = 2
	engine, err := suggest.NewEngine(strings.Fields("x y the cat the car the dog the cat go $HOME go $HOME"), opts)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	var out bytes.Buffer
	return NewInputHandlerWithIO(engine, limit, strings.NewReader(input), &out), &out
}

func TestInputHandler_Completions(t *testing.T) {
	h, out := newTestHandler(t, "I pet the ca\r\nx cd to go \nnothing matches here \n", 2)
	if err := h.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Found 2 completions for 'I pet the ca'", "car", "cat", `(insert: \$HOME)`, "No completions for: 'nothing matches here '"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
	// limited to 2
	if strings.Contains(got, "dog") {
		t.Errorf("Expected the limit to cut 'dog', got:\n%s", got)
	}
	if h.requestCount != 3 {
		t.Errorf("Expected 3 requests, got %d", h.requestCount)
	}
}

func TestInputHandler_Commands(t *testing.T) {
	h, out := newTestHandler(t, ":stats\n:vocab ca\n:vocab zz\n:bogus\n:q\nI pet the ca\n", 0)
	if err := h.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"order 2:", "order 1:", "car  cat", "No corpus tokens start with 'zz'", "Unknown command: :bogus"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
	if h.requestCount != 0 {
		t.Errorf("Input after :q must not be handled, got %d requests", h.requestCount)
	}
}
