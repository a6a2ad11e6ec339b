package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// rewritePrompt is the literal prefix prepended to the user's text before
// it is sent to the rewriter.
const rewritePrompt = "Translate: "

// defaultRewriteTimeout bounds the background LLM call. It is deliberately
// generous: model latency dominates, and nothing is waiting on the result
// except the open modal.
const defaultRewriteTimeout = 90 * time.Second

// updateTimeout bounds the terminal views.update call. It runs on its own
// deadline: a rewrite that exhausted its whole budget must still be able
// to swap the placeholder for the fallback message.
const updateTimeout = 10 * time.Second

// Rewriter produces an improved version of the given text.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// DialogGateway is the set of dialog operations the handler drives.
type DialogGateway interface {
	OpenPlaceholder(ctx context.Context, triggerID, channelID string) string
	ReplaceWithEditableForm(ctx context.Context, viewID, channelID, text string)
	PostAsUser(ctx context.Context, channelID, text string)
}

// Handler serves the slash-command and interaction webhooks. Each command
// invocation opens a placeholder modal synchronously, then hands off to a
// detached goroutine; nothing is shared between invocations.
type Handler struct {
	gateway        DialogGateway
	rewriter       Rewriter
	rewriteTimeout time.Duration
	log            *slog.Logger

	// tasks tracks in-flight background rewrites so tests can join on
	// them. The HTTP response never waits for it; work still running at
	// process exit is simply lost.
	tasks sync.WaitGroup
}

// NewHandler creates a Handler. A nil logger falls back to slog.Default.
func NewHandler(gateway DialogGateway, rewriter Rewriter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		gateway:        gateway,
		rewriter:       rewriter,
		rewriteTimeout: defaultRewriteTimeout,
		log:            logger,
	}
}

// HandleCommand is the slash-command entrypoint:
//  1. Open a quick "Working…" modal immediately, while the trigger ID is
//     still valid and well inside Slack's 3-second acknowledgement window.
//  2. Kick off the rewrite in the background; when done, the modal is
//     updated to the editable version.
//  3. Respond with an empty 200 right away, independent of the background
//     outcome.
func (h *Handler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	triggerID := r.FormValue("trigger_id")
	channelID := r.FormValue("channel_id")
	text := r.FormValue("text")

	viewID := h.gateway.OpenPlaceholder(r.Context(), triggerID, channelID)

	h.tasks.Add(1)
	go func() {
		defer h.tasks.Done()
		h.processAndUpdate(viewID, channelID, text)
	}()

	w.WriteHeader(http.StatusOK)
}

// processAndUpdate runs the rewrite and swaps the modal content. It always
// updates the modal exactly once: a failed rewrite is turned into a
// fallback message carrying the original prompt, so the user is never left
// staring at the placeholder.
func (h *Handler) processAndUpdate(viewID, channelID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), h.rewriteTimeout)
	defer cancel()

	prompt := rewritePrompt + text

	suggested, err := h.rewriter.Rewrite(ctx, prompt)
	if err != nil {
		h.log.Warn("rewrite failed, falling back to original text", "channel", channelID, "error", err)
		suggested = fmt.Sprintf("(Error generating suggestion: %v)\n\n%s", err, prompt)
	}

	// A fresh context here: ctx may already be expired when the rewrite
	// timed out, and the update must not inherit that.
	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), updateTimeout)
	defer cancelUpdate()
	h.gateway.ReplaceWithEditableForm(updateCtx, viewID, channelID, suggested)
}

// wait blocks until all detached background tasks have finished. Test
// hook; production code never calls it.
func (h *Handler) wait() {
	h.tasks.Wait()
}
