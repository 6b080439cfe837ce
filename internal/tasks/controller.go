// Package tasks maintains the in-memory task list for the current session:
// derived filtered views, aggregate counts, and optimistic mutations with
// rollback on failure.
package tasks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/taskflowpro/taskflow/internal/api"
)

// Filter selects tasks by completion status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Next cycles all → active → completed → all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Stats are the aggregate counts shown on the dashboard.
type Stats struct {
	Total     int
	Completed int
	Active    int
	Overdue   int
}

// TokenProvider reports the session token; an empty token skips fetches.
type TokenProvider interface {
	Token() string
}

// Controller owns the local task list. All methods are safe for concurrent
// use: refresh triggers, the poller, and TUI commands run on separate
// goroutines. Refetches are idempotent and last-write-wins; overlapping
// loads are not coalesced.
type Controller struct {
	client *api.Client
	tokens TokenProvider
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	tasks   []api.Task
	loading bool
	filter  Filter
	query   string
}

// NewController constructs a Controller around the given API client.
func NewController(client *api.Client, tokens TokenProvider, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		client: client,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
		filter: FilterAll,
	}
}

// SetClock overrides the controller's clock. Tests only.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Load refetches the task list and replaces local state. Without a session
// token it is a no-op: loading is cleared and the list left empty.
func (c *Controller) Load(ctx context.Context) error {
	if c.tokens.Token() == "" {
		c.mu.Lock()
		c.loading = false
		c.tasks = nil
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	tasks, err := c.client.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return errors.Wrap(err, "fetching tasks")
	}
	c.tasks = tasks
	return nil
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Tasks returns a copy of the full task list.
func (c *Controller) Tasks() []api.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Task(nil), c.tasks...)
}

// Task returns the task with the given id.
func (c *Controller) Task(id string) (api.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, task := range c.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return api.Task{}, false
}

// Filter returns the current status filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter sets the status filter.
func (c *Controller) SetFilter(filter Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
}

// CycleFilter advances the status filter and returns the new value.
func (c *Controller) CycleFilter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = c.filter.Next()
	return c.filter
}

// SetQuery sets the search query.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
}

// Filtered returns the tasks matching the status filter and, when a query is
// set, a case-insensitive substring match against title and description.
func (c *Controller) Filtered() []api.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(c.query))
	filtered := make([]api.Task, 0, len(c.tasks))
	for _, task := range c.tasks {
		if c.filter == FilterActive && task.Completed {
			continue
		}
		if c.filter == FilterCompleted && !task.Completed {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(task.Title), query) &&
			!strings.Contains(strings.ToLower(task.Description), query) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

// Stats computes the aggregate counts over the full (unfiltered) list.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := Stats{Total: len(c.tasks)}
	for _, task := range c.tasks {
		if task.Completed {
			stats.Completed++
		}
		if task.Overdue(now) {
			stats.Overdue++
		}
	}
	stats.Active = stats.Total - stats.Completed
	return stats
}

// Toggle optimistically flips a task's completion flag, then confirms with
// the server. On failure the snapshot taken before the flip is restored
// exactly; re-deriving the value by flipping again would double-flip under
// rapid repeated toggles.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		c.mu.Unlock()
		return errors.Errorf("unknown task %s", id)
	}
	previous := c.tasks[index].Completed
	next := !previous
	c.tasks[index].Completed = next
	c.mu.Unlock()

	updated, err := c.client.ToggleTask(ctx, id, next)
	if err != nil {
		c.logger.Warn("toggle rejected, restoring snapshot",
			zap.String("task_id", id), zap.Bool("restored", previous), zap.Error(err))
		c.mu.Lock()
		if index := c.indexOf(id); index >= 0 {
			c.tasks[index].Completed = previous
		}
		c.mu.Unlock()
		return errors.Wrap(err, "toggling task")
	}

	if updated != nil && updated.ID == id {
		c.mu.Lock()
		if index := c.indexOf(id); index >= 0 {
			c.tasks[index] = *updated
		}
		c.mu.Unlock()
	}
	return nil
}

// Delete optimistically removes a task, restoring it if the server refuses.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		c.mu.Unlock()
		return errors.Errorf("unknown task %s", id)
	}
	removed := c.tasks[index]
	c.tasks = append(c.tasks[:index], c.tasks[index+1:]...)
	c.mu.Unlock()

	if err := c.client.DeleteTask(ctx, id); err != nil {
		c.logger.Warn("delete rejected, restoring task", zap.String("task_id", id), zap.Error(err))
		c.mu.Lock()
		if index > len(c.tasks) {
			index = len(c.tasks)
		}
		c.tasks = append(c.tasks[:index], append([]api.Task{removed}, c.tasks[index:]...)...)
		c.mu.Unlock()
		return errors.Wrap(err, "deleting task")
	}
	return nil
}

// Create validates and creates a task, prepending the server's canonical
// record. No optimistic insert: the id and timestamps are server-assigned.
func (c *Controller) Create(ctx context.Context, draft api.TaskDraft) (*api.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, errors.New("task title must not be empty")
	}

	created, err := c.client.CreateTask(ctx, draft)
	if err != nil {
		return nil, errors.Wrap(err, "creating task")
	}

	c.mu.Lock()
	c.tasks = append([]api.Task{*created}, c.tasks...)
	c.mu.Unlock()
	return created, nil
}

// Update validates and updates a task, replacing the local record with the
// server's canonical one. Failures leave the list unchanged.
func (c *Controller) Update(ctx context.Context, id string, draft api.TaskDraft) (*api.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, errors.New("task title must not be empty")
	}

	updated, err := c.client.UpdateTask(ctx, id, draft)
	if err != nil {
		return nil, errors.Wrap(err, "updating task")
	}

	c.mu.Lock()
	if index := c.indexOf(id); index >= 0 {
		c.tasks[index] = *updated
	}
	c.mu.Unlock()
	return updated, nil
}

// indexOf returns the position of a task id. Callers hold the lock.
func (c *Controller) indexOf(id string) int {
	for i, task := range c.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}
