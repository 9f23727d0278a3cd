// Package todoist implements service.Service against the Todoist REST API.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"todoist/internal/service"
)

const (
	// BaseURL is the unified Todoist API endpoint.
	BaseURL = "https://api.todoist.com/api/v1"

	// RequestTimeout bounds every API call.
	RequestTimeout = 30 * time.Second

	// pageLimit is the page size requested from cursor-paginated endpoints.
	pageLimit = 200
)

// Client implements service.Service using the Todoist REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint. Meant for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides the per-request timeout budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetryDelay overrides the pause before the single transparent retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// New creates a client authenticated with the given API token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    BaseURL,
		token:      token,
		httpClient: &http.Client{},
		timeout:    RequestTimeout,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError carries the HTTP status so callers can reclassify
// context-dependent failures (e.g. 400 on a task lookup).
type apiError struct {
	status   int
	body     string
	sentinel error
}

func (e *apiError) Error() string {
	if e.sentinel != nil {
		return fmt.Sprintf("%v (HTTP %d)", e.sentinel, e.status)
	}
	msg := strings.TrimSpace(e.body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Sprintf("HTTP %d: %s", e.status, msg)
}

func (e *apiError) Unwrap() error { return e.sentinel }

// do performs one API request, retrying once on timeout or rate
// limiting, and decodes the JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			logrus.Debugf("retrying %s %s after transient error: %v", method, path, lastErr)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.doOnce(ctx, method, path, query, payload, out)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, service.ErrTimeout) && !errors.Is(lastErr, service.ErrRateLimited) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, payload []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.classifyTransport(ctx, err)
	}

	logrus.Debugf("%s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(respBody))

	if resp.StatusCode >= 400 {
		return classifyStatus(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// classifyTransport maps transport-level failures onto the service
// error taxonomy. Caller cancellation is passed through untouched.
func (c *Client) classifyTransport(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w after %s", service.ErrTimeout, c.timeout)
	}
	return fmt.Errorf("%w: %v", service.ErrConnection, err)
}

// classifyStatus maps HTTP error statuses onto the service error taxonomy.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &apiError{status: status, body: string(body), sentinel: service.ErrUnauthorized}
	case status == http.StatusNotFound:
		return &apiError{status: status, body: string(body), sentinel: service.ErrNotFound}
	case status == http.StatusTooManyRequests:
		return &apiError{status: status, body: string(body), sentinel: service.ErrRateLimited}
	default:
		return &apiError{status: status, body: string(body)}
	}
}

// collectPages fetches every page of a cursor-paginated listing.
// Responses have the shape {"results": [...], "next_cursor": "..."}.
func collectPages[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var all []T
	cursor := ""
	for {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("limit", fmt.Sprint(pageLimit))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var page struct {
			Results    []T     `json:"results"`
			NextCursor *string `json:"next_cursor"`
		}
		if err := c.do(ctx, http.MethodGet, path, q, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		if page.NextCursor == nil || *page.NextCursor == "" {
			return all, nil
		}
		cursor = *page.NextCursor
	}
}

// Projects returns all projects in the account.
func (c *Client) Projects(ctx context.Context) ([]service.Project, error) {
	return collectPages[service.Project](ctx, c, "/projects", nil)
}

// Sections returns sections, scoped to a project if projectID is non-empty.
func (c *Client) Sections(ctx context.Context, projectID string) ([]service.Section, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	return collectPages[service.Section](ctx, c, "/sections", q)
}

// Tasks returns active tasks matching the query.
func (c *Client) Tasks(ctx context.Context, query service.TaskQuery) ([]service.Task, error) {
	q := url.Values{}
	if query.ProjectID != "" {
		q.Set("project_id", query.ProjectID)
	}
	if query.SectionID != "" {
		q.Set("section_id", query.SectionID)
	}
	if query.Label != "" {
		q.Set("label", query.Label)
	}
	return collectPages[service.Task](ctx, c, "/tasks", q)
}

// Task returns a single task. Todoist answers 400 for malformed IDs
// and 404 for missing ones; both classify as not found here.
func (c *Client) Task(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &task)
	if err != nil {
		var ae *apiError
		if errors.As(err, &ae) && ae.status == http.StatusBadRequest {
			return service.Task{}, fmt.Errorf("task %q: %w", id, service.ErrNotFound)
		}
		if errors.Is(err, service.ErrNotFound) {
			return service.Task{}, fmt.Errorf("task %q: %w", id, service.ErrNotFound)
		}
		return service.Task{}, err
	}
	return task, nil
}

// FilterTasks returns tasks matching a Todoist filter query.
func (c *Client) FilterTasks(ctx context.Context, query string) ([]service.Task, error) {
	q := url.Values{}
	q.Set("query", query)
	return collectPages[service.Task](ctx, c, "/tasks/filter", q)
}

// AddTask creates a task and returns it.
func (c *Client) AddTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	body := map[string]any{"content": t.Content}
	if t.Description != "" {
		body["description"] = t.Description
	}
	if t.ProjectID != "" {
		body["project_id"] = t.ProjectID
	}
	if t.SectionID != "" {
		body["section_id"] = t.SectionID
	}
	if t.ParentID != "" {
		body["parent_id"] = t.ParentID
	}
	if t.Labels != nil {
		body["labels"] = t.Labels
	}
	if t.Priority != 0 {
		body["priority"] = t.Priority
	}
	if t.DueString != "" {
		body["due_string"] = t.DueString
	}

	var task service.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, body, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask updates task fields in place.
func (c *Client) UpdateTask(ctx context.Context, id string, u service.TaskUpdate) error {
	body := map[string]any{}
	if u.Content != "" {
		body["content"] = u.Content
	}
	if u.Description != nil {
		body["description"] = *u.Description
	}
	if u.Labels != nil {
		body["labels"] = u.Labels
	}
	if u.Priority != 0 {
		body["priority"] = u.Priority
	}
	if u.DueString != "" {
		body["due_string"] = u.DueString
	}
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id), nil, body, nil)
}

// MoveTask moves a task to another project, section, or parent. A 400
// mentioning workspaces or project_id means Todoist rejected a move
// across the personal/team workspace boundary.
func (c *Client) MoveTask(ctx context.Context, id string, m service.TaskMove) error {
	body := map[string]any{}
	if m.ProjectID != "" {
		body["project_id"] = m.ProjectID
	}
	if m.SectionID != "" {
		body["section_id"] = m.SectionID
	}
	if m.ParentID != "" {
		body["parent_id"] = m.ParentID
	}

	err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/move", nil, body, nil)
	if err == nil {
		return nil
	}
	var ae *apiError
	if errors.As(err, &ae) && ae.status == http.StatusBadRequest {
		lower := strings.ToLower(ae.body)
		if strings.Contains(lower, "workspace") || strings.Contains(lower, "project_id") {
			return fmt.Errorf("task %q: %w", id, service.ErrWorkspaceMove)
		}
	}
	return err
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/close", nil, nil, nil)
}

// AddSection creates a section in a project and returns it.
func (c *Client) AddSection(ctx context.Context, name, projectID string) (service.Section, error) {
	body := map[string]any{
		"name":       name,
		"project_id": projectID,
	}
	var section service.Section
	if err := c.do(ctx, http.MethodPost, "/sections", nil, body, &section); err != nil {
		return service.Section{}, err
	}
	return section, nil
}

// Comments returns comments for a task or a project.
func (c *Client) Comments(ctx context.Context, taskID, projectID string) ([]service.Comment, error) {
	q := url.Values{}
	if taskID != "" {
		q.Set("task_id", taskID)
	}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	return collectPages[service.Comment](ctx, c, "/comments", q)
}

// Collaborators returns the users sharing a project.
func (c *Client) Collaborators(ctx context.Context, projectID string) ([]service.Collaborator, error) {
	return collectPages[service.Collaborator](ctx, c, "/projects/"+url.PathEscape(projectID)+"/collaborators", nil)
}
