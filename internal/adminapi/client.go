// Package adminapi talks to the messaging service's admin HTTP API.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saravenpi/switchboard/internal/models"
)

const (
	PathAllFormData      = "/api/admin/all-form-data"
	PathAllSaveData      = "/api/admin/all-save-data"
	PathUser             = "/api/admin/user/"
	PathSaveData         = "/api/save-data"
	PathSetForwardStatus = "/api/set-forward-status"
	PathRelayMessage     = "/api/add-to-and-message"
)

// TokenProvider supplies the credential attached to every request. The client
// only reads it.
type TokenProvider interface {
	Token() (string, error)
}

// StaticToken is a TokenProvider that always returns the same value.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// Options configures NewClient.
type Options struct {
	BaseURL string
	Tokens  TokenProvider
	// AuthScheme is prepended to the token, e.g. "Bearer". Empty sends the raw token.
	AuthScheme string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the admin API.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	authScheme string
	http       *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. A zero Timeout means 10 seconds.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens:     tokens,
		authScheme: strings.TrimSpace(opts.AuthScheme),
		http:       httpClient,
		logger:     logger,
	}
}

// ListMessages returns every submitted form/message record, in server order.
func (c *Client) ListMessages(ctx context.Context) ([]models.MessageRecord, error) {
	var out []models.MessageRecord
	if err := c.getList(ctx, "list messages", PathAllFormData, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers returns every registered user, in server order.
func (c *Client) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	var out []models.UserRecord
	if err := c.getList(ctx, "list users", PathAllSaveData, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches one user by identifier.
func (c *Client) GetUser(ctx context.Context, id string) (models.UserRecord, error) {
	const op = "get user"
	var user models.UserRecord

	body, status, err := c.do(ctx, op, http.MethodGet, PathUser+url.PathEscape(id), nil)
	if err != nil {
		return user, err
	}
	payload, err := unwrapObject(body)
	if err != nil {
		return user, &RejectionError{Op: op, StatusCode: status, Err: err}
	}
	if err := json.Unmarshal(payload, &user); err != nil {
		return user, &RejectionError{Op: op, StatusCode: status, Err: fmt.Errorf("failed to decode user: %w", err)}
	}
	return user, nil
}

type saveDataRequest struct {
	MobileNumber       string `json:"mobileNumber"`
	ForwardPhoneNumber string `json:"forwardPhoneNumber"`
}

// SaveForwardNumber sets the forwarding destination of a user. Any 2xx is success.
func (c *Client) SaveForwardNumber(ctx context.Context, mobileNumber, forwardPhoneNumber string) error {
	_, _, err := c.do(ctx, "save forward number", http.MethodPost, PathSaveData, saveDataRequest{
		MobileNumber:       mobileNumber,
		ForwardPhoneNumber: forwardPhoneNumber,
	})
	return err
}

type setForwardStatusRequest struct {
	MobileNumber string `json:"mobileNumber"`
	IsForwarded  string `json:"isForwarded"`
}

// StatusResult is the body returned by /api/set-forward-status.
type StatusResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SetForwardStatus enables or disables forwarding. A 2xx body without
// success:true is returned as a *RejectionError carrying the server message.
func (c *Client) SetForwardStatus(ctx context.Context, mobileNumber string, status models.ForwardStatus) (StatusResult, error) {
	const op = "set forward status"
	var result StatusResult

	if status == models.ForwardUnset {
		return result, fmt.Errorf("%s: status must be active or deactive", op)
	}

	body, code, err := c.do(ctx, op, http.MethodPost, PathSetForwardStatus, setForwardStatusRequest{
		MobileNumber: mobileNumber,
		IsForwarded:  status.String(),
	})
	if err != nil {
		return result, err
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return result, &RejectionError{Op: op, StatusCode: code, Err: fmt.Errorf("failed to decode json: %w body=%q", err, string(body))}
		}
	}
	if !result.Success {
		return result, &RejectionError{Op: op, StatusCode: code, Message: result.Message}
	}
	return result, nil
}

type relayRequest struct {
	PhoneNo string `json:"phoneNo"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// RelayMessage asks the service to send message to `to` on behalf of phoneNo.
func (c *Client) RelayMessage(ctx context.Context, phoneNo, to, message string) error {
	_, _, err := c.do(ctx, "relay message", http.MethodPost, PathRelayMessage, relayRequest{
		PhoneNo: phoneNo,
		To:      to,
		Message: message,
	})
	return err
}

func (c *Client) getList(ctx context.Context, op, path string, out any) error {
	body, status, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	payload, err := unwrapList(body)
	if err != nil {
		return &RejectionError{Op: op, StatusCode: status, Err: err}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &RejectionError{Op: op, StatusCode: status, Err: fmt.Errorf("failed to decode list: %w", err)}
	}
	return nil
}

type errorBody struct {
	Message any `json:"message"`
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, &NetworkError{Op: op, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		return nil, 0, &NetworkError{Op: op, Err: fmt.Errorf("failed to read token: %w", err)}
	}
	if token != "" {
		if c.authScheme != "" {
			token = c.authScheme + " " + token
		}
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "method", method, "path", path, "err", err)
		return nil, 0, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &NetworkError{Op: op, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	c.logger.Debug("request done", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &RejectionError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body),
		}
	}
	return body, resp.StatusCode, nil
}

// serverMessage extracts {message: string} from an error body.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	s, _ := eb.Message.(string)
	return s
}

var errMalformed = errors.New("malformed response body")

// unwrapList accepts a bare array or a {data: [...]} envelope.
func unwrapList(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errMalformed
	}
	switch trimmed[0] {
	case '[':
		return trimmed, nil
	case '{':
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformed, err)
		}
		data := bytes.TrimSpace(env.Data)
		if len(data) > 0 && data[0] == '[' {
			return data, nil
		}
	}
	return nil, errMalformed
}

// unwrapObject accepts a bare object or a {data: {...}} envelope.
func unwrapObject(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errMalformed
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) > 0 && data[0] == '{' {
		return data, nil
	}
	return trimmed, nil
}
