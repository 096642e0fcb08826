// Package api implements the HTTP gateway to the remote task service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

const (
	// DefaultTimeout bounds a single task CRUD round trip.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 1 << 20

	userAgent = "taskdeck/cli"
)

// SignedOutNotice is surfaced when the service rejects the credential.
const SignedOutNotice = "Session expired. Run `taskdeck login` to sign in again."

// Client is the single choke point for outbound calls. It resolves the
// current identity per request, rewrites task endpoints into the
// user-scoped namespace, and maps failures onto the domain error
// taxonomy. A 401 anywhere clears the stored session and fires the
// OnAuthReject hook before the error is returned.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	sessions     ports.SessionStore
	timeout      time.Duration
	onAuthReject func(notice string)
}

var _ ports.Gateway = (*Client)(nil)

type Options struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Timeout defaults to DefaultTimeout; applied only when the caller
	// context carries no deadline of its own.
	Timeout time.Duration
	// OnAuthReject runs after a 401 has cleared the session.
	OnAuthReject func(notice string)
}

func NewClient(baseURL string, sessions ports.SessionStore, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   httpClient,
		sessions:     sessions,
		timeout:      timeout,
		onAuthReject: opts.OnAuthReject,
	}
}

func (c *Client) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	session, err := c.currentSession(ctx)
	if err != nil {
		return nil, err
	}

	request, err := c.buildRequest(ctx, method, endpoint, body, session)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, c.errorFromResponse(ctx, response.StatusCode, payload)
	}

	if response.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	return json.RawMessage(payload), nil
}

// currentSession reads the stored credential. Signed-out is not an
// error here: the request goes out bare and the server rejects it.
func (c *Client) currentSession(ctx context.Context) (domain.Session, error) {
	session, err := c.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}

	return session, nil
}

func (c *Client) buildRequest(ctx context.Context, method, endpoint string, body any, session domain.Session) (*http.Request, error) {
	// Task endpoints live in a per-user namespace; the rewrite is
	// invisible to callers above this layer.
	if session.Valid() && strings.HasPrefix(endpoint, "/tasks") {
		endpoint = "/api/" + url.PathEscape(session.UserID) + endpoint
	}

	reader, rawBody, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	request.Header.Set("User-Agent", userAgent)
	if session.Valid() {
		request.Header.Set("Authorization", "Bearer "+session.Token)
	}
	if reader != nil && !rawBody {
		request.Header.Set("Content-Type", "application/json")
	}

	return request, nil
}

// encodeBody marshals body to JSON unless the caller already supplies
// raw bytes or a stream.
func encodeBody(body any) (io.Reader, bool, error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return bytes.NewReader(b), true, nil
	case io.Reader:
		return b, true, nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, false, fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(encoded), false, nil
	}
}

func (c *Client) errorFromResponse(ctx context.Context, status int, payload []byte) error {
	apiErr := &domain.APIError{Status: status}

	// Error body shape, when present: {"detail": string | object}.
	var parsed struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Detail != nil {
		apiErr.Detail = parsed.Detail
		if detail, ok := parsed.Detail.(string); ok {
			apiErr.Message = detail
		}
	}

	if status == http.StatusUnauthorized {
		c.forceSignOut(ctx)
	}

	return apiErr
}

// forceSignOut terminates the local session so no further authenticated
// calls go out, then hands control to the sign-in surface.
func (c *Client) forceSignOut(ctx context.Context) {
	// Clear even when the caller context already expired.
	_ = c.sessions.Clear(context.WithoutCancel(ctx))
	if c.onAuthReject != nil {
		c.onAuthReject(SignedOutNotice)
	}
}
