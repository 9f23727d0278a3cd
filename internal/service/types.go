// Package service defines the backend-agnostic interface for Todoist operations.
package service

// Due is a task due date in Todoist's wire shape.
type Due struct {
	Date        string `json:"date"`
	String      string `json:"string,omitempty"`
	Lang        string `json:"lang,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
	Datetime    string `json:"datetime,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Project represents a Todoist project.
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Color          string `json:"color,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	Order          int    `json:"order"`
	CommentCount   int    `json:"comment_count"`
	IsShared       bool   `json:"is_shared"`
	IsFavorite     bool   `json:"is_favorite"`
	IsInboxProject bool   `json:"is_inbox_project"`
	ViewStyle      string `json:"view_style,omitempty"`
	URL            string `json:"url,omitempty"`
}

// Section represents a section within a project.
type Section struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Order     int    `json:"order"`
	Name      string `json:"name"`
}

// Task represents a Todoist task.
type Task struct {
	ID           string   `json:"id"`
	ProjectID    string   `json:"project_id"`
	SectionID    string   `json:"section_id,omitempty"`
	ParentID     string   `json:"parent_id,omitempty"`
	Content      string   `json:"content"`
	Description  string   `json:"description,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	Priority     int      `json:"priority"`
	Due          *Due     `json:"due,omitempty"`
	AssigneeID   string   `json:"assignee_id,omitempty"`
	CommentCount int      `json:"comment_count"`
	CreatedAt    string   `json:"created_at"`
	URL          string   `json:"url,omitempty"`
}

// Comment represents a comment on a task or project.
type Comment struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Content   string `json:"content"`
	PostedAt  string `json:"posted_at"`
}

// Collaborator represents a user sharing a project.
type Collaborator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskQuery narrows a Tasks call. Zero values mean no filter.
// These are server-side filters; age and assignee filters are
// applied client-side by the tasks command.
type TaskQuery struct {
	ProjectID string
	SectionID string
	Label     string
}

// NewTask holds the fields for task creation.
type NewTask struct {
	Content     string
	Description string
	ProjectID   string
	SectionID   string
	ParentID    string
	Labels      []string
	Priority    int
	DueString   string
}

// TaskUpdate holds the fields for a task update. Zero fields are
// left untouched; Description is a pointer so an empty string can
// clear the existing description.
type TaskUpdate struct {
	Content     string
	Description *string
	Labels      []string
	Priority    int
	DueString   string
}

// IsZero reports whether the update carries no fields.
func (u TaskUpdate) IsZero() bool {
	return u.Content == "" && u.Description == nil && u.Labels == nil &&
		u.Priority == 0 && u.DueString == ""
}

// TaskMove holds the destination for a task move.
type TaskMove struct {
	ProjectID string
	SectionID string
	ParentID  string
}

// IsZero reports whether the move carries no destination.
func (m TaskMove) IsZero() bool {
	return m.ProjectID == "" && m.SectionID == "" && m.ParentID == ""
}
