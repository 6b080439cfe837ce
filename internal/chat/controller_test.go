package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskflowpro/taskflow/internal/chatapi"
	"github.com/taskflowpro/taskflow/internal/tasksync"
)

type staticTokens string

func (t staticTokens) Token() string { return string(t) }

// agentBackend fakes the chat endpoint, recording the conversation ids it was
// sent and replying with a fixed conversation id and configurable tool calls.
type agentBackend struct {
	conversationID int64
	toolCalls      []chatapi.ToolCall
	failWith       int

	receivedConversationIDs []*int64
}

func (b *agentBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var request chatapi.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.receivedConversationIDs = append(b.receivedConversationIDs, request.ConversationID)
		if b.failWith != 0 {
			w.WriteHeader(b.failWith)
			return
		}
		json.NewEncoder(w).Encode(chatapi.ChatResponse{
			ConversationID: b.conversationID,
			Response:       "done",
			ToolCalls:      b.toolCalls,
		})
	})
	return mux
}

type recordingPublisher struct {
	published int
}

func (p *recordingPublisher) Publish() { p.published++ }

func newTestController(t *testing.T, backend *agentBackend, publisher Publisher) *Controller {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client := chatapi.NewClient(server.URL, staticTokens("token"))
	controller := NewController(client, publisher, chatapi.DefaultMessageLimit, nil)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	controller.SetClock(func() time.Time { return clock })
	return controller
}

func TestSendFirstMessageAdoptsServerConversationID(t *testing.T) {
	backend := &agentBackend{conversationID: 42}
	controller := newTestController(t, backend, nil)

	require.NoError(t, controller.Send(context.Background(), "hello"))

	// The first request must not carry a conversation id.
	require.Len(t, backend.receivedConversationIDs, 1)
	require.Nil(t, backend.receivedConversationIDs[0])

	require.EqualValues(t, 42, controller.ConversationID())

	// Exactly one user message, reconciled with the server's conversation id
	// rather than duplicated, followed by the reply.
	messages := controller.Messages()
	require.Len(t, messages, 2)
	require.Equal(t, chatapi.RoleUser, messages[0].Role)
	require.Equal(t, "hello", messages[0].Content)
	require.EqualValues(t, 42, messages[0].ConversationID)
	require.Equal(t, chatapi.RoleAssistant, messages[1].Role)
	require.Equal(t, "done", messages[1].Content)

	// The second send targets the adopted conversation.
	require.NoError(t, controller.Send(context.Background(), "and again"))
	require.Len(t, backend.receivedConversationIDs, 2)
	require.NotNil(t, backend.receivedConversationIDs[1])
	require.EqualValues(t, 42, *backend.receivedConversationIDs[1])
}

func TestSendFailureRemovesSynthesizedMessage(t *testing.T) {
	backend := &agentBackend{failWith: http.StatusServiceUnavailable}
	controller := newTestController(t, backend, nil)

	err := controller.Send(context.Background(), "hello")
	require.Error(t, err)
	require.Equal(t, "AI service is temporarily unavailable. Please try again later.", chatapi.UserMessage(err))

	require.Empty(t, controller.Messages())
	require.Zero(t, controller.ConversationID())
	require.False(t, controller.Sending())
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	backend := &agentBackend{conversationID: 1}
	controller := newTestController(t, backend, nil)

	require.Error(t, controller.Send(context.Background(), "   "))
	require.Empty(t, backend.receivedConversationIDs)
}

func TestSuccessfulTaskToolCallPublishesSync(t *testing.T) {
	backend := &agentBackend{
		conversationID: 7,
		toolCalls: []chatapi.ToolCall{{
			Tool:      "add_task",
			Arguments: map[string]any{"title": "buy milk"},
			Result:    chatapi.ToolResult{Success: true, Message: "created"},
		}},
	}
	publisher := &recordingPublisher{}
	controller := newTestController(t, backend, publisher)

	require.NoError(t, controller.Send(context.Background(), "add buy milk"))
	require.Equal(t, 1, publisher.published)

	// The annotations land on the assistant message.
	messages := controller.Messages()
	require.Len(t, messages, 2)
	toolCalls := controller.ToolCalls(messages[1].ID)
	require.Len(t, toolCalls, 1)
	require.Equal(t, "add_task", toolCalls[0].Tool)
}

func TestFailedTaskToolCallDoesNotPublish(t *testing.T) {
	backend := &agentBackend{
		conversationID: 7,
		toolCalls: []chatapi.ToolCall{{
			Tool:   "delete_task",
			Result: chatapi.ToolResult{Success: false, Error: "not found"},
		}},
	}
	publisher := &recordingPublisher{}
	controller := newTestController(t, backend, publisher)

	require.NoError(t, controller.Send(context.Background(), "delete it"))
	require.Zero(t, publisher.published)
}

func TestUnrelatedToolCallDoesNotPublish(t *testing.T) {
	backend := &agentBackend{
		conversationID: 7,
		toolCalls: []chatapi.ToolCall{{
			Tool:   "get_weather",
			Result: chatapi.ToolResult{Success: true},
		}},
	}
	publisher := &recordingPublisher{}
	controller := newTestController(t, backend, publisher)

	require.NoError(t, controller.Send(context.Background(), "weather?"))
	require.Zero(t, publisher.published)
}

func TestToolCallPublishReachesIndependentListener(t *testing.T) {
	backend := &agentBackend{
		conversationID: 9,
		toolCalls: []chatapi.ToolCall{{
			Tool:   "complete_task",
			Result: chatapi.ToolResult{Success: true},
		}},
	}

	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	hub, err := tasksync.NewHub(t.TempDir(), 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { hub.Close() })

	listener := hub.Subscribe()

	client := chatapi.NewClient(server.URL, staticTokens("token"))
	controller := NewController(client, hub, chatapi.DefaultMessageLimit, nil)
	require.NoError(t, controller.Send(context.Background(), "mark it done"))

	select {
	case <-listener:
	case <-time.After(2 * time.Second):
		t.Fatal("listener never notified of task mutation")
	}
}

func TestDeleteActiveConversationClearsSelection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversations/42/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]chatapi.Message{
			{ID: 1, ConversationID: 42, Role: chatapi.RoleUser, Content: "hi"},
		})
	})
	mux.HandleFunc("/api/conversations/42", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := chatapi.NewClient(server.URL, staticTokens("token"))
	controller := NewController(client, nil, chatapi.DefaultMessageLimit, nil)

	require.NoError(t, controller.Select(context.Background(), 42))
	require.EqualValues(t, 42, controller.ConversationID())
	require.Len(t, controller.Messages(), 1)

	require.NoError(t, controller.DeleteConversation(context.Background(), 42))
	require.Zero(t, controller.ConversationID())
	require.Empty(t, controller.Messages())
}
