// Package chatapi is the REST client for the backend's conversational agent:
// sending messages and managing conversation history.
package chatapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskflowpro/taskflow/internal/httpapi"
)

const (
	// DefaultConversationLimit matches the backend's paging default.
	DefaultConversationLimit = 50
	// DefaultMessageLimit matches the backend's paging default.
	DefaultMessageLimit = 100
)

// Client issues chat requests. Chat requests carry no client-side timeout:
// the agent may run several tool calls before replying.
type Client struct {
	caller *httpapi.Caller
}

// NewClient constructs a Client.
func NewClient(baseURL string, tokens httpapi.TokenProvider) *Client {
	return &Client{
		caller: httpapi.NewCaller(baseURL, tokens, &http.Client{}),
	}
}

// SendMessage sends one user message and returns the agent's reply together
// with any tool invocations it performed.
func (c *Client) SendMessage(ctx context.Context, request *ChatRequest) (*ChatResponse, error) {
	response := &ChatResponse{}
	if err := c.caller.Do(ctx, http.MethodPost, "/api/chat", nil, request, response); err != nil {
		return nil, err
	}
	return response, nil
}

// ListConversations fetches the authenticated user's conversations, most
// recently updated first.
func (c *Client) ListConversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = DefaultConversationLimit
	}
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	var conversations []Conversation
	if err := c.caller.Do(ctx, http.MethodGet, "/api/conversations", query, nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// ConversationMessages fetches a conversation's messages in order.
func (c *Client) ConversationMessages(ctx context.Context, conversationID int64, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	path := fmt.Sprintf("/api/conversations/%d/messages", conversationID)
	var messages []Message
	if err := c.caller.Do(ctx, http.MethodGet, path, query, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteConversation deletes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, conversationID int64) error {
	path := fmt.Sprintf("/api/conversations/%d", conversationID)
	return c.caller.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}
