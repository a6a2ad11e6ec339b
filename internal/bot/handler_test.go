package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockGateway records dialog operations in order.
type gatewayCall struct {
	op        string // "open", "update", "post"
	viewID    string
	channelID string
	text      string
}

type mockGateway struct {
	mu         sync.Mutex
	calls      []gatewayCall
	openViewID string
}

func (m *mockGateway) OpenPlaceholder(_ context.Context, triggerID, channelID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{op: "open", viewID: triggerID, channelID: channelID})
	return m.openViewID
}

func (m *mockGateway) ReplaceWithEditableForm(_ context.Context, viewID, channelID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{op: "update", viewID: viewID, channelID: channelID, text: text})
}

func (m *mockGateway) PostAsUser(_ context.Context, channelID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{op: "post", channelID: channelID, text: text})
}

func (m *mockGateway) callsSnapshot() []gatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]gatewayCall(nil), m.calls...)
}

func (m *mockGateway) callsOf(op string) []gatewayCall {
	var out []gatewayCall
	for _, c := range m.callsSnapshot() {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

// mockRewriter returns a canned result or error and records its inputs.
type mockRewriter struct {
	mu     sync.Mutex
	inputs []string
	result string
	err    error
	block  chan struct{} // if non-nil, Rewrite waits on it first
}

func (m *mockRewriter) Rewrite(_ context.Context, text string) (string, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, text)
	if m.err != nil {
		return "", m.err
	}
	return m.result, nil
}

func commandRequest(triggerID, channelID, text string) *http.Request {
	form := url.Values{}
	form.Set("trigger_id", triggerID)
	form.Set("channel_id", channelID)
	if text != "" {
		form.Set("text", text)
	}
	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCommandSendsPromptWithTranslatePrefix(t *testing.T) {
	gw := &mockGateway{openViewID: "V1"}
	rw := &mockRewriter{result: "Hello"}
	h := NewHandler(gw, rw, discardLogger())

	w := httptest.NewRecorder()
	h.HandleCommand(w, commandRequest("T1", "C1", "Hola"))
	h.wait()

	if len(rw.inputs) != 1 {
		t.Fatalf("expected 1 rewrite call, got %d", len(rw.inputs))
	}
	if rw.inputs[0] != "Translate: Hola" {
		t.Errorf(`expected prompt "Translate: Hola", got %q`, rw.inputs[0])
	}
}

func TestCommandEmptyTextDefaultsToEmptyPrompt(t *testing.T) {
	gw := &mockGateway{openViewID: "V1"}
	rw := &mockRewriter{result: "ok"}
	h := NewHandler(gw, rw, discardLogger())

	w := httptest.NewRecorder()
	h.HandleCommand(w, commandRequest("T1", "C1", ""))
	h.wait()

	if len(rw.inputs) != 1 || rw.inputs[0] != "Translate: " {
		t.Errorf(`expected prompt "Translate: ", got %v`, rw.inputs)
	}
}

func TestCommandRespondsBeforeBackgroundWork(t *testing.T) {
	gw := &mockGateway{openViewID: "V9"}
	rw := &mockRewriter{result: "Hello", block: make(chan struct{})}
	h := NewHandler(gw, rw, discardLogger())

	w := httptest.NewRecorder()
	h.HandleCommand(w, commandRequest("T9", "C9", "Hola"))

	// The synchronous response is complete while the rewrite is still
	// blocked; only the open call has happened.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
	calls := gw.callsSnapshot()
	if len(calls) != 1 || calls[0].op != "open" {
		t.Fatalf("expected exactly the open call before rewrite completes, got %+v", calls)
	}
	if calls[0].channelID != "C9" {
		t.Errorf("expected open on channel C9, got %q", calls[0].channelID)
	}

	close(rw.block)
	h.wait()

	updates := gw.callsOf("update")
	if len(updates) != 1 {
		t.Fatalf("expected exactly 1 update call, got %d", len(updates))
	}
	if updates[0].viewID != "V9" || updates[0].channelID != "C9" || updates[0].text != "Hello" {
		t.Errorf("unexpected update call: %+v", updates[0])
	}
}

func TestCommandRewriteFailureStillUpdatesOnce(t *testing.T) {
	gw := &mockGateway{openViewID: "V1"}
	rw := &mockRewriter{err: errors.New("model exploded")}
	h := NewHandler(gw, rw, discardLogger())

	w := httptest.NewRecorder()
	h.HandleCommand(w, commandRequest("T1", "C1", "Hola"))
	h.wait()

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite rewrite failure, got %d", w.Code)
	}

	updates := gw.callsOf("update")
	if len(updates) != 1 {
		t.Fatalf("expected exactly 1 update call, got %d", len(updates))
	}
	if !strings.Contains(updates[0].text, "Translate: Hola") {
		t.Errorf("fallback text must contain the original prompt, got %q", updates[0].text)
	}
	if !strings.Contains(updates[0].text, "Error generating suggestion") {
		t.Errorf("fallback text must carry a diagnostic, got %q", updates[0].text)
	}
}

func TestCommandContinuesWhenOpenFails(t *testing.T) {
	// An empty view ID from a failed open still flows through; the
	// gateway's update op no-ops on it.
	gw := &mockGateway{openViewID: ""}
	rw := &mockRewriter{result: "Hello"}
	h := NewHandler(gw, rw, discardLogger())

	w := httptest.NewRecorder()
	h.HandleCommand(w, commandRequest("T1", "C1", "Hola"))
	h.wait()

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	updates := gw.callsOf("update")
	if len(updates) != 1 || updates[0].viewID != "" {
		t.Fatalf("expected update called with empty view id, got %+v", updates)
	}
}

func TestConcurrentCommandsAreIndependent(t *testing.T) {
	gw := &mockGateway{openViewID: "V1"}
	rw := &mockRewriter{result: "out"}
	h := NewHandler(gw, rw, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			h.HandleCommand(w, commandRequest("T", "C", "x"))
		}()
	}
	wg.Wait()
	h.wait()

	if got := len(gw.callsOf("open")); got != 5 {
		t.Errorf("expected 5 independent opens, got %d", got)
	}
	if got := len(gw.callsOf("update")); got != 5 {
		t.Errorf("expected 5 independent updates, got %d", got)
	}
}
