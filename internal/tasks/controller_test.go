package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskflowpro/taskflow/internal/api"
	"github.com/taskflowpro/taskflow/internal/session"
)

// fakeBackend is a minimal in-memory task server recording toggle calls.
type fakeBackend struct {
	mu          sync.Mutex
	tasks       []api.Task
	toggleArgs  []bool
	failToggle  bool
	failDelete  bool
	failCreate  bool
	nextID      int
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tasks/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(b.tasks)

		case r.Method == http.MethodPost:
			if b.failCreate {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"message": "create rejected"})
				return
			}
			var draft api.TaskDraft
			json.NewDecoder(r.Body).Decode(&draft)
			b.nextID++
			task := api.Task{
				ID:          fmt.Sprintf("new-%d", b.nextID),
				Title:       draft.Title,
				Description: draft.Description,
				Priority:    draft.Priority,
				DueDate:     draft.DueDate,
			}
			b.tasks = append(b.tasks, task)
			json.NewEncoder(w).Encode(task)

		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/toggle"):
			var body map[string]bool
			json.NewDecoder(r.Body).Decode(&body)
			b.toggleArgs = append(b.toggleArgs, body["completed"])
			if b.failToggle {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": "toggle rejected"})
				return
			}
			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1/tasks/"), "/toggle")
			for i := range b.tasks {
				if b.tasks[i].ID == id {
					b.tasks[i].Completed = body["completed"]
					json.NewEncoder(w).Encode(b.tasks[i])
					return
				}
			}
			http.NotFound(w, r)

		case r.Method == http.MethodDelete:
			if b.failDelete {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": "delete rejected"})
				return
			}
			id := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks/")
			for i := range b.tasks {
				if b.tasks[i].ID == id {
					b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
					break
				}
			}
			w.WriteHeader(http.StatusNoContent)

		case r.Method == http.MethodPut:
			id := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks/")
			var draft api.TaskDraft
			json.NewDecoder(r.Body).Decode(&draft)
			for i := range b.tasks {
				if b.tasks[i].ID == id {
					b.tasks[i].Title = draft.Title
					b.tasks[i].Description = draft.Description
					b.tasks[i].Priority = draft.Priority
					b.tasks[i].DueDate = draft.DueDate
					json.NewEncoder(w).Encode(b.tasks[i])
					return
				}
			}
			http.NotFound(w, r)
		}
	})
	return mux
}

func newTestController(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	store := session.NewStore(&session.MemoryStorage{})
	require.NoError(t, store.SetToken("test-token"))
	client := api.NewClient(server.URL, store, 5*time.Second)
	return NewController(client, store, nil)
}

func TestLoadWithoutTokenSkipsServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a session token")
	}))
	t.Cleanup(server.Close)

	store := session.NewStore(&session.MemoryStorage{})
	controller := NewController(api.NewClient(server.URL, store, time.Second), store, nil)

	require.NoError(t, controller.Load(context.Background()))
	require.False(t, controller.Loading())
	require.Empty(t, controller.Tasks())
}

func TestToggleTwiceRestoresOriginalState(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{{ID: "1", Title: "Buy milk", Completed: false}}}
	controller := newTestController(t, backend)
	ctx := context.Background()
	require.NoError(t, controller.Load(ctx))

	require.NoError(t, controller.Toggle(ctx, "1"))
	require.NoError(t, controller.Toggle(ctx, "1"))

	task, ok := controller.Task("1")
	require.True(t, ok)
	require.False(t, task.Completed)
	// Exactly two server calls, with alternating arguments.
	require.Equal(t, []bool{true, false}, backend.toggleArgs)
}

func TestToggleRollbackRestoresSnapshot(t *testing.T) {
	for _, initial := range []bool{false, true} {
		backend := &fakeBackend{
			tasks:      []api.Task{{ID: "1", Title: "Buy milk", Completed: initial}},
			failToggle: true,
		}
		controller := newTestController(t, backend)
		ctx := context.Background()
		require.NoError(t, controller.Load(ctx))

		err := controller.Toggle(ctx, "1")
		require.Error(t, err)

		task, ok := controller.Task("1")
		require.True(t, ok)
		require.Equal(t, initial, task.Completed, "initial=%v must be restored", initial)
	}
}

func TestDeleteRollbackRestoresTask(t *testing.T) {
	backend := &fakeBackend{
		tasks: []api.Task{
			{ID: "1", Title: "First"},
			{ID: "2", Title: "Second"},
		},
		failDelete: true,
	}
	controller := newTestController(t, backend)
	ctx := context.Background()
	require.NoError(t, controller.Load(ctx))

	err := controller.Delete(ctx, "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "delete rejected")

	ids := map[string]bool{}
	for _, task := range controller.Tasks() {
		ids[task.ID] = true
	}
	require.True(t, ids["1"], "deleted task must reappear")
	require.True(t, ids["2"])
	require.Len(t, controller.Tasks(), 2)
}

func TestDeleteRemovesTask(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{{ID: "1", Title: "First"}}}
	controller := newTestController(t, backend)
	ctx := context.Background()
	require.NoError(t, controller.Load(ctx))

	require.NoError(t, controller.Delete(ctx, "1"))
	require.Empty(t, controller.Tasks())
}

func TestFilterActiveWithSearch(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{
		{ID: "1", Title: "Buy groceries", Completed: false},
		{ID: "2", Title: "Groceries budget", Completed: true},
		{ID: "3", Title: "Laundry", Description: "also GROCERIES run", Completed: false},
		{ID: "4", Title: "Walk dog", Completed: false},
	}}
	controller := newTestController(t, backend)
	require.NoError(t, controller.Load(context.Background()))

	controller.SetFilter(FilterActive)
	controller.SetQuery("groceries")

	filtered := controller.Filtered()
	require.Len(t, filtered, 2)
	for _, task := range filtered {
		require.False(t, task.Completed)
	}
	require.Equal(t, "1", filtered[0].ID)
	require.Equal(t, "3", filtered[1].ID)
}

func TestStatsCountsOverdue(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{
		{ID: "1", Title: "Buy milk", Completed: false, DueDate: "2020-01-01"},
	}}
	controller := newTestController(t, backend)
	controller.SetClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })
	require.NoError(t, controller.Load(context.Background()))

	stats := controller.Stats()
	require.Equal(t, Stats{Total: 1, Completed: 0, Active: 1, Overdue: 1}, stats)
}

func TestStatsIgnoresFutureAndMissingDueDates(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{
		{ID: "1", Title: "past due done", Completed: true, DueDate: "2020-01-01"},
		{ID: "2", Title: "future", Completed: false, DueDate: "2999-01-01"},
		{ID: "3", Title: "no due date", Completed: false},
	}}
	controller := newTestController(t, backend)
	controller.SetClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })
	require.NoError(t, controller.Load(context.Background()))

	stats := controller.Stats()
	require.Equal(t, Stats{Total: 3, Completed: 1, Active: 2, Overdue: 0}, stats)
}

func TestCreatePrependsServerRecord(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{{ID: "1", Title: "Existing"}}}
	controller := newTestController(t, backend)
	ctx := context.Background()
	require.NoError(t, controller.Load(ctx))

	created, err := controller.Create(ctx, api.TaskDraft{Title: "Fresh"})
	require.NoError(t, err)

	tasks := controller.Tasks()
	require.Len(t, tasks, 2)
	require.Equal(t, created.ID, tasks[0].ID, "new task is prepended")
	require.Equal(t, "1", tasks[1].ID)
}

func TestCreateRejectsEmptyTitleBeforeRequest(t *testing.T) {
	backend := &fakeBackend{failCreate: true}
	controller := newTestController(t, backend)

	_, err := controller.Create(context.Background(), api.TaskDraft{Title: "   "})
	require.Error(t, err)
	// The backend would have answered "create rejected"; the validation
	// error proves no request was made.
	require.NotContains(t, err.Error(), "create rejected")
}

func TestCreateFailureLeavesListUnchanged(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{{ID: "1", Title: "Existing"}}, failCreate: true}
	controller := newTestController(t, backend)
	ctx := context.Background()
	require.NoError(t, controller.Load(ctx))

	_, err := controller.Create(ctx, api.TaskDraft{Title: "Fresh"})
	require.Error(t, err)
	require.Len(t, controller.Tasks(), 1)
}

func TestUpdateReplacesRecord(t *testing.T) {
	backend := &fakeBackend{tasks: []api.Task{{ID: "1", Title: "Old title"}}}
	controller := newTestController(t, backend)
	ctx := context.Background()
	require.NoError(t, controller.Load(ctx))

	_, err := controller.Update(ctx, "1", api.TaskDraft{Title: "New title"})
	require.NoError(t, err)

	task, ok := controller.Task("1")
	require.True(t, ok)
	require.Equal(t, "New title", task.Title)
}
