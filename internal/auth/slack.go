package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bueltan/repharsely/internal/slack"
)

// slackAuthorizeURL is where users grant the app its scopes.
const slackAuthorizeURL = "https://slack.com/oauth/v2/authorize"

// oauthStateTTL bounds how long an issued state parameter stays valid.
const oauthStateTTL = 10 * time.Minute

// OAuthExchanger exchanges an authorization code for tokens.
type OAuthExchanger interface {
	OAuthAccess(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*slack.OAuthResponse, error)
}

// OAuthHandler serves the Slack OAuth v2 flow: a home page with the
// authorize link and the redirect callback that exchanges the code and
// persists the resulting user token. The user token is what lets the app
// post messages under the user's own identity.
type OAuthHandler struct {
	client       OAuthExchanger
	store        *Store
	clientID     string
	clientSecret string
	redirectURI  string
	log          *slog.Logger

	mu     sync.Mutex
	states map[string]time.Time
}

// NewOAuthHandler creates an OAuthHandler. A nil logger falls back to
// slog.Default.
func NewOAuthHandler(client OAuthExchanger, store *Store, clientID, clientSecret, redirectURI string, logger *slog.Logger) *OAuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OAuthHandler{
		client:       client,
		store:        store,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		log:          logger,
		states:       map[string]time.Time{},
	}
}

// RegisterRoutes mounts the OAuth endpoints on the given router.
func RegisterRoutes(r chi.Router, h *OAuthHandler) {
	r.Get("/", h.HandleHome)
	r.Get("/slack/oauth/callback", h.HandleCallback)
}

// AuthorizeURL builds a fresh authorize link carrying a one-time state
// parameter.
func (h *OAuthHandler) AuthorizeURL() string {
	state := uuid.NewString()

	h.mu.Lock()
	for s, issued := range h.states {
		if time.Since(issued) > oauthStateTTL {
			delete(h.states, s)
		}
	}
	h.states[state] = time.Now()
	h.mu.Unlock()

	q := url.Values{}
	q.Set("client_id", h.clientID)
	q.Set("scope", "chat:write")
	q.Set("user_scope", "chat:write")
	q.Set("redirect_uri", h.redirectURI)
	q.Set("state", state)
	return slackAuthorizeURL + "?" + q.Encode()
}

// consumeState validates and invalidates a state parameter.
func (h *OAuthHandler) consumeState(state string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	issued, ok := h.states[state]
	if !ok {
		return false
	}
	delete(h.states, state)
	return time.Since(issued) <= oauthStateTTL
}

// HandleHome renders the page with the Slack app authorization link.
func (h *OAuthHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<a href="%s">Authorize Slack App</a>`, h.AuthorizeURL())
}

// HandleCallback handles the OAuth redirect: it exchanges the code for a
// user token and persists it so subsequent Slack calls pick it up without
// a restart.
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing ?code param", http.StatusBadRequest)
		return
	}
	if !h.consumeState(r.URL.Query().Get("state")) {
		http.Error(w, "Invalid or expired state", http.StatusBadRequest)
		return
	}

	resp, err := h.client.OAuthAccess(r.Context(), h.clientID, h.clientSecret, code, h.redirectURI)
	if err != nil {
		h.log.Warn("oauth exchange failed", "error", err)
		var apiErr *slack.APIError
		if errors.As(err, &apiErr) {
			http.Error(w, fmt.Sprintf("Slack rejected the code: %s", apiErr.Code), http.StatusBadRequest)
			return
		}
		http.Error(w, "OAuth exchange failed", http.StatusBadGateway)
		return
	}

	if err := h.store.Set(SlackUserToken, resp.AuthedUser.AccessToken); err != nil {
		h.log.Error("persisting user token failed", "error", err)
		http.Error(w, "Could not store the token", http.StatusInternalServerError)
		return
	}

	h.log.Info("slack user token stored", "user", resp.AuthedUser.ID, "team", resp.Team.ID)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "Authorization complete. Your user token has been stored; "+
		"you can close this tab and use the slash command.")
}
