package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fruitflow/backend/internal/infrastructure/config"
)

// Message is one entry in a push request. Type is "text" or "image".
type Message struct {
	Type               string `json:"type"`
	Text               string `json:"text,omitempty"`
	OriginalContentURL string `json:"originalContentUrl,omitempty"`
	PreviewImageURL    string `json:"previewImageUrl,omitempty"`
}

// NewTextMessage builds a text message
func NewTextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// NewImageMessage builds an image message. The preview falls back to the
// original when not given.
func NewImageMessage(originalURL, previewURL string) Message {
	if previewURL == "" {
		previewURL = originalURL
	}
	return Message{
		Type:               "image",
		OriginalContentURL: originalURL,
		PreviewImageURL:    previewURL,
	}
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Client calls the LINE Messaging API
type Client struct {
	pushEndpoint string
	channelToken string
	httpClient   *http.Client
}

// NewClient creates a client from configuration
func NewClient(cfg config.LineConfig) *Client {
	return &Client{
		pushEndpoint: cfg.PushEndpoint,
		channelToken: cfg.ChannelToken,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Push sends messages to a user. At most five messages per call, per the
// provider's API limit.
func (c *Client) Push(ctx context.Context, to string, messages ...Message) error {
	if to == "" {
		return fmt.Errorf("push target is required")
	}
	if len(messages) == 0 {
		return nil
	}
	if len(messages) > 5 {
		messages = messages[:5]
	}

	body, err := json.Marshal(pushRequest{To: to, Messages: messages})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push API returned status %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}

// PushText sends a single text message
func (c *Client) PushText(ctx context.Context, to string, text string) error {
	return c.Push(ctx, to, NewTextMessage(text))
}

// PushImage sends a single image message
func (c *Client) PushImage(ctx context.Context, to string, originalURL, previewURL string) error {
	return c.Push(ctx, to, NewImageMessage(originalURL, previewURL))
}
