package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// TokenSource supplies the bearer token for each API call. Resolving the
// token per call means a token obtained through the OAuth flow after
// startup is picked up without restarting the process.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// StaticToken returns a TokenSource that always yields the given token.
func StaticToken(token string) TokenSource {
	return TokenFunc(func() string { return token })
}

// APIError is a non-success response from the Slack Web API: a transport
// failure surfaces as a wrapped error instead, so an APIError always means
// Slack answered and said no.
type APIError struct {
	Method     string // API method, e.g. "views.open"
	StatusCode int
	Code       string // Slack error code, e.g. "invalid_trigger_id"
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("slack %s failed: %s", e.Method, e.Code)
	}
	return fmt.Sprintf("slack %s failed: http %d", e.Method, e.StatusCode)
}

// Client is a minimal Slack Web API client covering the methods this
// application needs: views.open, views.update, chat.postMessage and
// oauth.v2.access.
type Client struct {
	httpClient *http.Client
	baseURL    string
	source     TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

// WithHTTPClient overrides the HTTP client, e.g. to adjust timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Slack client authenticated by the given token source.
func New(source TokenSource, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		source:     source,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiEnvelope is the common ok/error pair every Web API response carries.
type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// postJSON sends an authenticated JSON request to the given API method,
// checks the ok/error envelope, and returns the raw body so callers can
// decode method-specific fields.
func (c *Client) postJSON(ctx context.Context, method string, payload any) ([]byte, error) {
	token := c.source.Token()
	if token == "" {
		return nil, fmt.Errorf("slack %s: missing user token (complete the OAuth flow first)", method)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("slack %s: marshalling request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("slack %s: building request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("slack %s: reading response: %w", method, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, StatusCode: resp.StatusCode}
	}

	var env apiEnvelope
	if len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf("slack %s: decoding response: %w", method, err)
		}
		if !env.OK {
			code := strings.TrimSpace(env.Error)
			if code == "" {
				code = "unknown_error"
			}
			return nil, &APIError{Method: method, StatusCode: resp.StatusCode, Code: code}
		}
	}

	return respBody, nil
}

type viewOpenRequest struct {
	TriggerID string `json:"trigger_id"`
	View      View   `json:"view"`
}

type viewOpenResponse struct {
	View struct {
		ID string `json:"id"`
	} `json:"view"`
}

// OpenView opens a modal via views.open. The trigger ID is single-use and
// only valid for a few seconds after the slash command, so callers must not
// do slow work first. Returns the ID of the opened view.
func (c *Client) OpenView(ctx context.Context, triggerID string, view View) (string, error) {
	body, err := c.postJSON(ctx, "views.open", viewOpenRequest{TriggerID: triggerID, View: view})
	if err != nil {
		return "", err
	}
	var out viewOpenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("slack views.open: decoding response: %w", err)
	}
	if out.View.ID == "" {
		return "", fmt.Errorf("slack views.open: response missing view id")
	}
	return out.View.ID, nil
}

type viewUpdateRequest struct {
	ViewID string `json:"view_id"`
	View   View   `json:"view"`
}

// UpdateView replaces the contents of an open modal via views.update.
func (c *Client) UpdateView(ctx context.Context, viewID string, view View) error {
	_, err := c.postJSON(ctx, "views.update", viewUpdateRequest{ViewID: viewID, View: view})
	return err
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// MessageResponse is the parsed body of a chat.postMessage call.
type MessageResponse struct {
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}

// PostMessage posts text to a channel via chat.postMessage. With a user
// token the message appears as authored by the user, not a bot. An empty
// response body yields a zero-value MessageResponse.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) (*MessageResponse, error) {
	body, err := c.postJSON(ctx, "chat.postMessage", postMessageRequest{Channel: channelID, Text: text})
	if err != nil {
		return nil, err
	}
	out := &MessageResponse{}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("slack chat.postMessage: decoding response: %w", err)
	}
	return out, nil
}

// OAuthResponse is the parsed body of an oauth.v2.access call. Only the
// authed_user section matters here: its access token is the user token
// that lets the app post messages under the user's identity.
type OAuthResponse struct {
	AuthedUser struct {
		ID          string `json:"id"`
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	} `json:"authed_user"`
	Team struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// OAuthAccess exchanges an OAuth authorization code for tokens via
// oauth.v2.access. Unlike the other methods this call is form-encoded and
// authenticated with the client credentials, not a bearer token.
func (c *Client) OAuthAccess(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*OAuthResponse, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth.v2.access", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("slack oauth.v2.access: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack oauth.v2.access: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("slack oauth.v2.access: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: "oauth.v2.access", StatusCode: resp.StatusCode}
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("slack oauth.v2.access: decoding response: %w", err)
	}
	if !env.OK {
		code := strings.TrimSpace(env.Error)
		if code == "" {
			code = "unknown_error"
		}
		return nil, &APIError{Method: "oauth.v2.access", StatusCode: resp.StatusCode, Code: code}
	}

	out := &OAuthResponse{}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("slack oauth.v2.access: decoding response: %w", err)
	}
	if out.AuthedUser.AccessToken == "" {
		return nil, fmt.Errorf("slack oauth.v2.access: response missing authed_user access token")
	}
	return out, nil
}
