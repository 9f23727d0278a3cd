// Package service defines the backend-agnostic interface for Todoist operations.
package service

import "context"

// Service defines the interface for Todoist backend operations.
// All REST calls go through this interface. Commands never talk
// HTTP directly.
type Service interface {
	// Projects returns all projects in the account.
	Projects(ctx context.Context) ([]Project, error)

	// Sections returns sections, scoped to a project if projectID is non-empty.
	Sections(ctx context.Context, projectID string) ([]Section, error)

	// Tasks returns active tasks matching the query.
	Tasks(ctx context.Context, q TaskQuery) ([]Task, error)

	// Task returns a single task. Returns ErrNotFound for IDs that are
	// invalid or do not exist.
	Task(ctx context.Context, id string) (Task, error)

	// FilterTasks returns tasks matching a Todoist filter query
	// ("today", "overdue", "#Work & @waiting", ...). The query is
	// passed through to the API verbatim.
	FilterTasks(ctx context.Context, query string) ([]Task, error)

	// AddTask creates a task and returns it.
	AddTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask updates task fields (content, description, labels,
	// priority, due). Moves go through MoveTask.
	UpdateTask(ctx context.Context, id string, u TaskUpdate) error

	// MoveTask moves a task to another project, section, or parent.
	MoveTask(ctx context.Context, id string, m TaskMove) error

	// CompleteTask marks a task completed.
	CompleteTask(ctx context.Context, id string) error

	// AddSection creates a section in a project and returns it.
	AddSection(ctx context.Context, name, projectID string) (Section, error)

	// Comments returns comments for a task or a project. Exactly one
	// of taskID and projectID should be set.
	Comments(ctx context.Context, taskID, projectID string) ([]Comment, error)

	// Collaborators returns the users sharing a project.
	Collaborators(ctx context.Context, projectID string) ([]Collaborator, error)
}
