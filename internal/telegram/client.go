package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

const parseModeHTML = "HTML"

// ErrNotModified is returned by EditPhoto when the message already shows the
// requested media, caption, and keyboard.
var ErrNotModified = errors.New("message is not modified")

// APIError is a Bot API failure with its HTTP status and description.
type APIError struct {
	Method      string
	StatusCode  int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("telegram %s returned %d", e.Method, e.StatusCode)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg
}

// Client calls Bot API methods for one bot token.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. Its timeout must exceed
// the long-poll timeout passed to GetUpdates.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at a different Bot API server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithRateLimit replaces the outbound limiter. A nil limiter disables
// throttling.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// New creates a Client.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("telegram bot token required")
	}
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		// Channels accept roughly 20 posts a minute.
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendPhoto posts a photo with an HTML caption and returns the sent message.
func (c *Client) SendPhoto(ctx context.Context, photo Photo) (*Message, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	req := sendPhotoRequest{
		ChatID:      photo.ChatID,
		Photo:       photo.URL,
		Caption:     photo.Caption,
		ParseMode:   parseModeHTML,
		HasSpoiler:  photo.Spoiler,
		ReplyMarkup: photo.Keyboard,
	}
	var msg Message
	if err := c.call(ctx, "sendPhoto", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditPhoto replaces the photo, caption, and keyboard of an existing message.
func (c *Client) EditPhoto(ctx context.Context, messageID int64, photo Photo) error {
	if messageID <= 0 {
		return errors.New("message id must be positive")
	}
	if err := c.wait(ctx); err != nil {
		return err
	}
	req := editMessageMediaRequest{
		ChatID:    photo.ChatID,
		MessageID: messageID,
		Media: inputMediaPhoto{
			Type:       "photo",
			Media:      photo.URL,
			Caption:    photo.Caption,
			ParseMode:  parseModeHTML,
			HasSpoiler: photo.Spoiler,
		},
		ReplyMarkup: photo.Keyboard,
	}
	// The result is the edited Message, or true for inline messages.
	var result json.RawMessage
	err := c.call(ctx, "editMessageMedia", req, &result)
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Description), "message is not modified") {
		return fmt.Errorf("%w: %s", ErrNotModified, apiErr.Description)
	}
	return err
}

// GetMe returns the bot account the token belongs to.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", struct{}{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUpdates long-polls for channel posts after offset. timeout is the
// server-side wait; the request itself is bounded by ctx and the HTTP client.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"channel_post"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", req, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit: %w", err)
	}
	return nil
}

type envelope struct {
	OK          bool                `json:"ok"`
	Result      json.RawMessage     `json:"result"`
	ErrorCode   int                 `json:"error_code"`
	Description string              `json:"description"`
	Parameters  *responseParameters `json:"parameters"`
}

func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the endpoint, which carries the token.
		return fmt.Errorf("telegram %s: %w", method, redact(err, c.token))
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{Method: method, StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK || !env.OK {
		apiErr := &APIError{Method: method, StatusCode: resp.StatusCode, Description: env.Description}
		if env.ErrorCode != 0 {
			apiErr.StatusCode = env.ErrorCode
		}
		if env.Parameters != nil && env.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(env.Parameters.RetryAfter) * time.Second
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<token>"), cause: err}
}
