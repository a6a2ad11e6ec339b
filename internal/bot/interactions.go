package bot

import (
	"encoding/json"
	"net/http"

	"github.com/bueltan/repharsely/internal/slack"
)

// interactionPayload is the JSON structure Slack delivers in the `payload`
// form field of an interaction callback. Only the fields this handler
// reads are modelled.
type interactionPayload struct {
	Type string `json:"type"`
	View struct {
		CallbackID      string `json:"callback_id"`
		PrivateMetadata string `json:"private_metadata"`
		State           struct {
			Values map[string]map[string]struct {
				Value string `json:"value"`
			} `json:"values"`
		} `json:"state"`
	} `json:"view"`
}

// HandleInteraction handles the submission of the edit modal: it extracts
// the edited text and the channel carried in private_metadata, and posts
// the message as the user. Every payload is acknowledged with an empty
// 200, including malformed ones and types this app doesn't handle, since
// Slack retries or shows errors to the user otherwise.
func (h *Handler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("payload")

	var payload interactionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		h.log.Debug("ignoring malformed interaction payload", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if payload.Type != "view_submission" {
		w.WriteHeader(http.StatusOK)
		return
	}

	block, ok := payload.View.State.Values[slack.MessageInputBlockID]
	if !ok {
		h.log.Debug("interaction payload missing message input block")
		w.WriteHeader(http.StatusOK)
		return
	}
	input, ok := block[slack.MessageInputActionID]
	if !ok {
		h.log.Debug("interaction payload missing message text action")
		w.WriteHeader(http.StatusOK)
		return
	}

	channelID := payload.View.PrivateMetadata
	if channelID == "" {
		h.log.Debug("interaction payload missing channel in private metadata")
		w.WriteHeader(http.StatusOK)
		return
	}

	h.gateway.PostAsUser(r.Context(), channelID, input.Value)
	w.WriteHeader(http.StatusOK)
}
