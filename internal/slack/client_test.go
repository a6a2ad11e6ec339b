package slack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := New(StaticToken("xoxp-test"), WithBaseURL(srv.URL))
	return client, srv
}

func TestOpenViewReturnsViewID(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"ok": true, "view": {"id": "V1"}}`))
	})

	viewID, err := client.OpenView(context.Background(), "T1", PlaceholderView("C1"))
	if err != nil {
		t.Fatalf("OpenView: %v", err)
	}
	if viewID != "V1" {
		t.Errorf("expected view ID V1, got %q", viewID)
	}
	if gotAuth != "Bearer xoxp-test" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotPath != "/views.open" {
		t.Errorf("expected /views.open, got %q", gotPath)
	}
	if gotReq["trigger_id"] != "T1" {
		t.Errorf("expected trigger_id T1, got %v", gotReq["trigger_id"])
	}
	view, _ := gotReq["view"].(map[string]any)
	if view["private_metadata"] != "C1" {
		t.Errorf("expected private_metadata C1, got %v", view["private_metadata"])
	}
	if view["callback_id"] != CallbackEditAndSend {
		t.Errorf("expected callback_id %q, got %v", CallbackEditAndSend, view["callback_id"])
	}
}

func TestOpenViewNotOK(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "invalid_trigger_id"}`))
	})

	_, err := client.OpenView(context.Background(), "T1", PlaceholderView("C1"))
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "invalid_trigger_id" {
		t.Errorf("expected code invalid_trigger_id, got %q", apiErr.Code)
	}
	if apiErr.Method != "views.open" {
		t.Errorf("expected method views.open, got %q", apiErr.Method)
	}
}

func TestOpenViewHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.OpenView(context.Background(), "T1", PlaceholderView("C1"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apiErr.StatusCode)
	}
}

func TestOpenViewMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made without a token")
	}))
	defer srv.Close()

	client := New(StaticToken(""), WithBaseURL(srv.URL))
	if _, err := client.OpenView(context.Background(), "T1", PlaceholderView("C1")); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestUpdateView(t *testing.T) {
	var gotReq map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/views.update" {
			t.Errorf("expected /views.update, got %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"ok": true}`))
	})

	if err := client.UpdateView(context.Background(), "V1", EditView("C1", "Hello")); err != nil {
		t.Fatalf("UpdateView: %v", err)
	}
	if gotReq["view_id"] != "V1" {
		t.Errorf("expected view_id V1, got %v", gotReq["view_id"])
	}
}

func TestPostMessage(t *testing.T) {
	var gotReq map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Errorf("expected /chat.postMessage, got %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"ok": true, "channel": "C1", "ts": "1700000000.000100"}`))
	})

	resp, err := client.PostMessage(context.Background(), "C1", "hello there")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if gotReq["channel"] != "C1" || gotReq["text"] != "hello there" {
		t.Errorf("unexpected request body: %v", gotReq)
	}
	if resp.TS != "1700000000.000100" {
		t.Errorf("expected ts from response, got %q", resp.TS)
	}
}

func TestPostMessageEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.PostMessage(context.Background(), "C1", "hi")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if resp == nil || resp.Channel != "" || resp.TS != "" {
		t.Errorf("expected zero-value response for empty body, got %+v", resp)
	}
}

func TestOAuthAccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth.v2.access" {
			t.Errorf("expected /oauth.v2.access, got %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("oauth.v2.access must not carry a bearer token")
		}
		r.ParseForm()
		if r.PostFormValue("client_id") != "123.456" || r.PostFormValue("code") != "tmpcode" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		w.Write([]byte(`{"ok": true, "authed_user": {"id": "U1", "access_token": "xoxp-new", "scope": "chat:write"}}`))
	})

	resp, err := client.OAuthAccess(context.Background(), "123.456", "shh", "tmpcode", "https://example.com/cb")
	if err != nil {
		t.Fatalf("OAuthAccess: %v", err)
	}
	if resp.AuthedUser.AccessToken != "xoxp-new" {
		t.Errorf("expected user token xoxp-new, got %q", resp.AuthedUser.AccessToken)
	}
}

func TestOAuthAccessNotOK(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "invalid_code"}`))
	})

	_, err := client.OAuthAccess(context.Background(), "123.456", "shh", "bad", "https://example.com/cb")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "invalid_code" {
		t.Errorf("expected code invalid_code, got %q", apiErr.Code)
	}
}
