// Package api is the REST client for the backend's auth and task endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/taskflowpro/taskflow/internal/httpapi"
)

// Client issues task and auth requests. Construct one per backend; there are
// no package-level singletons, so tests can run several isolated instances.
type Client struct {
	caller *httpapi.Caller
}

// NewClient constructs a Client. A zero timeout disables the client-side
// deadline.
func NewClient(baseURL string, tokens httpapi.TokenProvider, timeout time.Duration) *Client {
	return &Client{
		caller: httpapi.NewCaller(baseURL, tokens, &http.Client{Timeout: timeout}),
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	response := &AuthResponse{}
	if err := c.caller.Do(ctx, http.MethodPost, "/api/v1/auth/login", nil, body, response); err != nil {
		return nil, err
	}
	return response, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	response := &AuthResponse{}
	if err := c.caller.Do(ctx, http.MethodPost, "/api/v1/auth/register", nil, body, response); err != nil {
		return nil, err
	}
	return response, nil
}

// ListTasks fetches every task owned by the authenticated user.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.caller.Do(ctx, http.MethodGet, "/api/v1/tasks/", nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task and returns the server's canonical record.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (*Task, error) {
	task := &Task{}
	if err := c.caller.Do(ctx, http.MethodPost, "/api/v1/tasks/", nil, draft, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask updates a task and returns the server's canonical record.
func (c *Client) UpdateTask(ctx context.Context, id string, draft TaskDraft) (*Task, error) {
	task := &Task{}
	if err := c.caller.Do(ctx, http.MethodPut, "/api/v1/tasks/"+id, nil, draft, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.caller.Do(ctx, http.MethodDelete, "/api/v1/tasks/"+id, nil, nil, nil)
}

// ToggleTask sets a task's completion flag and returns the updated record.
func (c *Client) ToggleTask(ctx context.Context, id string, completed bool) (*Task, error) {
	body := map[string]bool{"completed": completed}
	task := &Task{}
	if err := c.caller.Do(ctx, http.MethodPatch, "/api/v1/tasks/"+id+"/toggle", nil, body, task); err != nil {
		return nil, err
	}
	return task, nil
}
