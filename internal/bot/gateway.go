package bot

import (
	"context"
	"log/slog"

	"github.com/bueltan/repharsely/internal/slack"
)

// DialogClient is the subset of the Slack client the gateway needs.
type DialogClient interface {
	OpenView(ctx context.Context, triggerID string, view slack.View) (string, error)
	UpdateView(ctx context.Context, viewID string, view slack.View) error
	PostMessage(ctx context.Context, channelID, text string) (*slack.MessageResponse, error)
}

// Gateway wraps the three dialog operations against Slack. Failures are
// logged and swallowed rather than returned: by the time most of these
// calls run, the synchronous HTTP response has already been sent and there
// is no caller left to propagate to.
type Gateway struct {
	client DialogClient
	log    *slog.Logger
}

// NewGateway creates a Gateway. A nil logger falls back to slog.Default.
func NewGateway(client DialogClient, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{client: client, log: logger}
}

// OpenPlaceholder opens the "Working…" modal for the given trigger and
// returns the new view ID. On failure it logs a warning and returns "";
// the command keeps going and the later update becomes a no-op.
func (g *Gateway) OpenPlaceholder(ctx context.Context, triggerID, channelID string) string {
	viewID, err := g.client.OpenView(ctx, triggerID, slack.PlaceholderView(channelID))
	if err != nil {
		g.log.Warn("views.open failed", "channel", channelID, "error", err)
		return ""
	}
	return viewID
}

// ReplaceWithEditableForm swaps the placeholder modal for the editable one,
// pre-filled with text. No-ops when viewID is empty (the open call failed).
func (g *Gateway) ReplaceWithEditableForm(ctx context.Context, viewID, channelID, text string) {
	if viewID == "" {
		g.log.Warn("no view id available to update modal", "channel", channelID)
		return
	}
	if err := g.client.UpdateView(ctx, viewID, slack.EditView(channelID, text)); err != nil {
		g.log.Warn("views.update failed", "view", viewID, "channel", channelID, "error", err)
	}
}

// PostAsUser posts text to the channel under the user's own identity.
func (g *Gateway) PostAsUser(ctx context.Context, channelID, text string) {
	if _, err := g.client.PostMessage(ctx, channelID, text); err != nil {
		g.log.Warn("chat.postMessage failed", "channel", channelID, "error", err)
	}
}
