// Package chat maintains the message history for the active conversation and
// the send flow against the backend agent. When the agent's tool calls mutate
// tasks, the controller emits a sync notification so every task surface
// refetches.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
	"go.uber.org/zap"

	"github.com/taskflowpro/taskflow/internal/chatapi"
)

// taskTools are the agent tools whose success means task data changed.
// list_tasks is included to match the dashboard-refresh behavior after the
// agent has been asked about tasks.
var taskTools = strset.New("add_task", "delete_task", "complete_task", "update_task", "list_tasks")

// Publisher announces that tasks changed elsewhere.
type Publisher interface {
	Publish()
}

// Controller holds the active conversation's state.
type Controller struct {
	client *chatapi.Client
	sync   Publisher
	logger *zap.Logger
	now    func() time.Time

	messageLimit int

	mu             sync.Mutex
	conversationID int64
	messages       []chatapi.Message
	toolCalls      map[int64][]chatapi.ToolCall
	sending        bool
}

// NewController constructs a Controller. The publisher may be nil when no
// other surface needs notifying (plain one-shot commands).
func NewController(client *chatapi.Client, publisher Publisher, messageLimit int, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		client:       client,
		sync:         publisher,
		logger:       logger,
		now:          time.Now,
		messageLimit: messageLimit,
		toolCalls:    map[int64][]chatapi.ToolCall{},
	}
}

// SetClock overrides the controller's clock. Tests only.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// ConversationID returns the active conversation id, 0 when none.
func (c *Controller) ConversationID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// Messages returns a copy of the message history.
func (c *Controller) Messages() []chatapi.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chatapi.Message(nil), c.messages...)
}

// ToolCalls returns the tool-call annotations for an assistant message.
func (c *Controller) ToolCalls(messageID int64) []chatapi.ToolCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toolCalls[messageID]
}

// Sending reports whether a send is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Reset clears the selection: the next Send starts a new conversation.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversationID = 0
	c.messages = nil
	c.toolCalls = map[int64][]chatapi.ToolCall{}
}

// Select loads an existing conversation's history and makes it active.
func (c *Controller) Select(ctx context.Context, conversationID int64) error {
	messages, err := c.client.ConversationMessages(ctx, conversationID, c.messageLimit)
	if err != nil {
		return errors.Wrap(err, "loading conversation history")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversationID = conversationID
	c.messages = messages
	c.toolCalls = map[int64][]chatapi.ToolCall{}
	return nil
}

// Conversations lists the user's conversations for the sidebar.
func (c *Controller) Conversations(ctx context.Context, limit int) ([]chatapi.Conversation, error) {
	return c.client.ListConversations(ctx, limit)
}

// DeleteConversation deletes a conversation, clearing the selection when the
// deleted one was active.
func (c *Controller) DeleteConversation(ctx context.Context, conversationID int64) error {
	if err := c.client.DeleteConversation(ctx, conversationID); err != nil {
		return errors.Wrap(err, "deleting conversation")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conversationID == conversationID {
		c.conversationID = 0
		c.messages = nil
		c.toolCalls = map[int64][]chatapi.ToolCall{}
	}
	return nil
}

// Send appends a synthesized user message immediately, sends it, and on
// success appends the agent's reply with its tool-call annotations. The
// synthesized message's conversation id is reconciled with the server's when
// this message started the conversation. On failure the synthesized message
// is removed and a categorized error returned; no retry.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("message must not be empty")
	}

	c.mu.Lock()
	conversationID := c.conversationID
	temp := chatapi.Message{
		ID:             c.now().UnixMilli(),
		ConversationID: conversationID,
		Role:           chatapi.RoleUser,
		Content:        text,
		CreatedAt:      c.now().Format(time.RFC3339),
	}
	c.messages = append(c.messages, temp)
	c.sending = true
	c.mu.Unlock()

	request := &chatapi.ChatRequest{Message: text}
	if conversationID != 0 {
		request.ConversationID = &conversationID
	}
	response, err := c.client.SendMessage(ctx, request)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sending = false

	if err != nil {
		c.logger.Warn("send failed, dropping synthesized message", zap.Int64("message_id", temp.ID), zap.Error(err))
		c.removeMessage(temp.ID)
		// Callers map this to user-facing wording with chatapi.UserMessage.
		return errors.Wrap(err, "sending message")
	}

	c.conversationID = response.ConversationID
	if index := c.indexOf(temp.ID); index >= 0 {
		c.messages[index].ConversationID = response.ConversationID
	}

	assistant := chatapi.Message{
		ID:             temp.ID + 1,
		ConversationID: response.ConversationID,
		Role:           chatapi.RoleAssistant,
		Content:        response.Response,
		CreatedAt:      c.now().Format(time.RFC3339),
	}
	c.messages = append(c.messages, assistant)
	if len(response.ToolCalls) > 0 {
		c.toolCalls[assistant.ID] = response.ToolCalls
	}

	if c.sync != nil && tasksMutated(response.ToolCalls) {
		c.sync.Publish()
	}
	return nil
}

// tasksMutated reports whether any successful tool call targeted tasks.
func tasksMutated(toolCalls []chatapi.ToolCall) bool {
	for _, call := range toolCalls {
		if taskTools.Has(call.Tool) && call.Result.Success {
			return true
		}
	}
	return false
}

// removeMessage drops a message by id. Callers hold the lock.
func (c *Controller) removeMessage(id int64) {
	if index := c.indexOf(id); index >= 0 {
		c.messages = append(c.messages[:index], c.messages[index+1:]...)
	}
}

// indexOf returns the position of a message id. Callers hold the lock.
func (c *Controller) indexOf(id int64) int {
	for i, message := range c.messages {
		if message.ID == id {
			return i
		}
	}
	return -1
}
