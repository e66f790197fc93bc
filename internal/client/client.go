// Package client provides the REST client for the chat backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

// Client talks to the chat backend over plain JSON REST.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new REST client.
// If baseURL is empty, uses CHATSYNC_SERVER_URL env var or defaults to
// localhost:8080. Timeout can be configured via CHATSYNC_CLIENT_TIMEOUT.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("CHATSYNC_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/v1"
	}

	timeout := 15 * time.Second
	if t := os.Getenv("CHATSYNC_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchAllConversations loads the full conversation list.
func (c *Client) FetchAllConversations(ctx context.Context) ([]models.ConversationRecord, error) {
	var records []models.ConversationRecord
	if err := c.do(ctx, http.MethodGet, "/chatviews", nil, &records); err != nil {
		return nil, fmt.Errorf("fetch conversations: %w", err)
	}
	return records, nil
}

// FetchConversationHistory loads the full message history for one
// conversation.
func (c *Client) FetchConversationHistory(ctx context.Context, conversationID string) ([]models.Message, error) {
	path := "/chatviews/" + url.PathEscape(conversationID) + "/messages"
	var msgs []models.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", conversationID, err)
	}
	return msgs, nil
}

// sendRequest is the request payload for sending a message.
type sendRequest struct {
	Text string `json:"text"`
}

// SendMessage posts a message and returns the server-confirmed form with its
// permanent id and server timestamp.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (models.Message, error) {
	path := "/chatviews/" + url.PathEscape(conversationID) + "/messages"
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, path, sendRequest{Text: text}, &msg); err != nil {
		return models.Message{}, fmt.Errorf("send message to %s: %w", conversationID, err)
	}
	if msg.Conversation == "" {
		msg.Conversation = conversationID
	}
	return msg, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server error: %s - %s", resp.Status, string(data))
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
