package api

import "time"

// Task priorities accepted by the backend.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a task record as the backend serializes it. The id and userId are
// server-assigned and never change; updatedAt is recomputed server-side on
// every mutation.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	UserID      string `json:"userId"`
}

// dueDateLayouts covers the formats the backend has been seen emitting.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DueTime parses the due date. The second return is false when the task has
// no due date or it cannot be parsed.
func (t *Task) DueTime() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, t.DueDate); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Overdue reports whether the task's due date is strictly in the past and
// the task is not completed. Tasks without a due date are never overdue.
func (t *Task) Overdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.DueTime()
	return ok && due.Before(now)
}

// TaskDraft is the client-supplied portion of a task for create and update
// calls.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Completed   *bool  `json:"completed,omitempty"`
}

// AuthResponse carries the bearer token issued by login and register.
type AuthResponse struct {
	Token string `json:"token"`
}
