package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskflowpro/taskflow/internal/httpapi"
	"github.com/taskflowpro/taskflow/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store := session.NewStore(&session.MemoryStorage{})
	return NewClient(server.URL, store, 5*time.Second), store
}

func TestLoginSendsCredentialsAndNoAuthHeader(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "jane@example.com", body["email"])
		require.Equal(t, "hunter2", body["password"])

		json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))

	response, err := client.Login(context.Background(), "jane@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "issued-token", response.Token)
}

func TestListTasksAttachesBearerToken(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/tasks/", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]Task{{ID: "1", Title: "Buy milk"}})
	}))
	require.NoError(t, store.SetToken("tok-1"))

	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Buy milk", tasks[0].Title)
}

func TestToggleTaskSendsCompletedFlag(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/v1/tasks/42/toggle", r.URL.Path)
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.True(t, body["completed"])
		json.NewEncoder(w).Encode(Task{ID: "42", Completed: true})
	}))

	task, err := client.ToggleTask(context.Background(), "42", true)
	require.NoError(t, err)
	require.True(t, task.Completed)
}

func TestDeleteTaskTreatsNoContentAsSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/tasks/42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteTask(context.Background(), "42"))
}

func TestErrorMessageExtractedFromJSONBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "title must not be empty"})
	}))

	_, err := client.CreateTask(context.Background(), TaskDraft{Title: ""})
	require.Error(t, err)
	require.Equal(t, "title must not be empty", err.Error())
	require.Equal(t, http.StatusBadRequest, httpapi.StatusCode(err))
}

func TestErrorFallsBackToRawBodyThenStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	_, err := client.ListTasks(context.Background())
	require.Error(t, err)
	require.Equal(t, "upstream exploded", err.Error())

	client, _ = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err = client.ListTasks(context.Background())
	require.Error(t, err)
	require.Equal(t, "HTTP error! status: 500", err.Error())
}

func TestTaskDueTimeAndOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	task := Task{DueDate: "2020-01-01"}
	require.True(t, task.Overdue(now))

	task = Task{DueDate: "2020-01-01", Completed: true}
	require.False(t, task.Overdue(now))

	task = Task{}
	require.False(t, task.Overdue(now))
	_, ok := task.DueTime()
	require.False(t, ok)

	task = Task{DueDate: "2999-01-01T00:00:00Z"}
	require.False(t, task.Overdue(now))
}
