package bot

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func interactionRequest(payload string) *http.Request {
	form := url.Values{}
	form.Set("payload", payload)
	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestInteractionViewSubmissionPostsAsUser(t *testing.T) {
	gw := &mockGateway{}
	h := NewHandler(gw, &mockRewriter{}, discardLogger())

	payload := `{
		"type": "view_submission",
		"view": {
			"callback_id": "edit_and_send_message",
			"private_metadata": "C42",
			"state": {
				"values": {
					"message_input": {
						"message_text": {"value": "Hello"}
					}
				}
			}
		}
	}`

	w := httptest.NewRecorder()
	h.HandleInteraction(w, interactionRequest(payload))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	posts := gw.callsOf("post")
	if len(posts) != 1 {
		t.Fatalf("expected exactly 1 post call, got %d", len(posts))
	}
	if posts[0].channelID != "C42" || posts[0].text != "Hello" {
		t.Errorf(`expected PostAsUser("C42", "Hello"), got %+v`, posts[0])
	}
}

func TestInteractionIgnoresOtherTypes(t *testing.T) {
	gw := &mockGateway{}
	h := NewHandler(gw, &mockRewriter{}, discardLogger())

	payload := `{"type": "block_actions", "view": {"private_metadata": "C42"}}`

	w := httptest.NewRecorder()
	h.HandleInteraction(w, interactionRequest(payload))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if calls := gw.callsSnapshot(); len(calls) != 0 {
		t.Errorf("expected zero gateway calls, got %+v", calls)
	}
}

func TestInteractionMalformedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"invalid json", `{not json`},
		{"empty payload", ``},
		{"missing view", `{"type": "view_submission"}`},
		{"missing input block", `{
			"type": "view_submission",
			"view": {"private_metadata": "C42", "state": {"values": {}}}
		}`},
		{"missing action", `{
			"type": "view_submission",
			"view": {
				"private_metadata": "C42",
				"state": {"values": {"message_input": {}}}
			}
		}`},
		{"missing channel", `{
			"type": "view_submission",
			"view": {
				"private_metadata": "",
				"state": {"values": {"message_input": {"message_text": {"value": "hi"}}}}
			}
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{}
			h := NewHandler(gw, &mockRewriter{}, discardLogger())

			w := httptest.NewRecorder()
			h.HandleInteraction(w, interactionRequest(tt.payload))

			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
			if calls := gw.callsSnapshot(); len(calls) != 0 {
				t.Errorf("expected zero gateway calls, got %+v", calls)
			}
		})
	}
}
