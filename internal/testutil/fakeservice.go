// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"todoist/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu            sync.RWMutex
	projects      []service.Project
	sections      []service.Section
	tasks         map[string]service.Task // id -> task
	order         []string                // task ids in insertion order
	comments      map[string][]service.Comment
	collaborators map[string][]service.Collaborator
	completed     map[string]bool

	// Error injection for testing
	ProjectsErr      error
	SectionsErr      error
	TasksErr         error
	TaskErr          error
	FilterErr        error
	AddTaskErr       error
	UpdateTaskErr    error
	MoveTaskErr      error
	CompleteTaskErr  error
	AddSectionErr    error
	CommentsErr      error
	CollaboratorsErr error

	// FilterResults is returned verbatim by FilterTasks.
	FilterResults []service.Task

	nextID int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:         make(map[string]service.Task),
		comments:      make(map[string][]service.Comment),
		collaborators: make(map[string][]service.Collaborator),
		completed:     make(map[string]bool),
	}
}

// AddProject adds a project fixture.
func (f *FakeService) AddProject(id, name string, inbox bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, service.Project{ID: id, Name: name, IsInboxProject: inbox})
}

// AddSectionFixture adds a section fixture.
func (f *FakeService) AddSectionFixture(id, projectID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sections = append(f.sections, service.Section{ID: id, ProjectID: projectID, Name: name})
}

// AddTaskFixture adds a task fixture.
func (f *FakeService) AddTaskFixture(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = t
	f.order = append(f.order, t.ID)
}

// AddCommentFixture attaches a comment to a task.
func (f *FakeService) AddCommentFixture(taskID string, c service.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.TaskID = taskID
	f.comments[taskID] = append(f.comments[taskID], c)
	if t, ok := f.tasks[taskID]; ok {
		t.CommentCount = len(f.comments[taskID])
		f.tasks[taskID] = t
	}
}

// AddCollaboratorFixture attaches a collaborator to a project.
func (f *FakeService) AddCollaboratorFixture(projectID string, c service.Collaborator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collaborators[projectID] = append(f.collaborators[projectID], c)
}

// Completed reports whether a task was completed through the fake.
func (f *FakeService) Completed(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.completed[id]
}

// Task fetches a task fixture directly (test inspection).
func (f *FakeService) TaskFixture(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	return t, ok
}

// Projects implements service.Service.
func (f *FakeService) Projects(ctx context.Context) ([]service.Project, error) {
	if f.ProjectsErr != nil {
		return nil, f.ProjectsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Project, len(f.projects))
	copy(result, f.projects)
	return result, nil
}

// Sections implements service.Service.
func (f *FakeService) Sections(ctx context.Context, projectID string) ([]service.Section, error) {
	if f.SectionsErr != nil {
		return nil, f.SectionsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []service.Section
	for _, s := range f.sections {
		if projectID == "" || s.ProjectID == projectID {
			result = append(result, s)
		}
	}
	return result, nil
}

// Tasks implements service.Service.
func (f *FakeService) Tasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []service.Task
	for _, id := range f.order {
		t := f.tasks[id]
		if f.completed[id] {
			continue
		}
		if q.ProjectID != "" && t.ProjectID != q.ProjectID {
			continue
		}
		if q.SectionID != "" && t.SectionID != q.SectionID {
			continue
		}
		if q.Label != "" && !hasLabel(t, q.Label) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func hasLabel(t service.Task, label string) bool {
	for _, l := range t.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// Task implements service.Service.
func (f *FakeService) Task(ctx context.Context, id string) (service.Task, error) {
	if f.TaskErr != nil {
		return service.Task{}, f.TaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.tasks[id]
	if !ok {
		return service.Task{}, fmt.Errorf("task %q: %w", id, service.ErrNotFound)
	}
	return t, nil
}

// FilterTasks implements service.Service.
func (f *FakeService) FilterTasks(ctx context.Context, query string) ([]service.Task, error) {
	if f.FilterErr != nil {
		return nil, f.FilterErr
	}
	return f.FilterResults, nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	if f.AddTaskErr != nil {
		return service.Task{}, f.AddTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		ProjectID:   t.ProjectID,
		SectionID:   t.SectionID,
		ParentID:    t.ParentID,
		Content:     t.Content,
		Description: t.Description,
		Labels:      t.Labels,
		Priority:    t.Priority,
	}
	f.tasks[task.ID] = task
	f.order = append(f.order, task.ID)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, u service.TaskUpdate) error {
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("task %q: %w", id, service.ErrNotFound)
	}
	if u.Content != "" {
		t.Content = u.Content
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Labels != nil {
		t.Labels = u.Labels
	}
	if u.Priority != 0 {
		t.Priority = u.Priority
	}
	f.tasks[id] = t
	return nil
}

// MoveTask implements service.Service.
func (f *FakeService) MoveTask(ctx context.Context, id string, m service.TaskMove) error {
	if f.MoveTaskErr != nil {
		return f.MoveTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("task %q: %w", id, service.ErrNotFound)
	}
	if m.ProjectID != "" {
		t.ProjectID = m.ProjectID
	}
	if m.SectionID != "" {
		t.SectionID = m.SectionID
	}
	if m.ParentID != "" {
		t.ParentID = m.ParentID
	}
	f.tasks[id] = t
	return nil
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, id string) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("task %q: %w", id, service.ErrNotFound)
	}
	f.completed[id] = true
	return nil
}

// AddSection implements service.Service.
func (f *FakeService) AddSection(ctx context.Context, name, projectID string) (service.Section, error) {
	if f.AddSectionErr != nil {
		return service.Section{}, f.AddSectionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s := service.Section{
		ID:        fmt.Sprintf("section-%d", f.nextID),
		ProjectID: projectID,
		Name:      name,
	}
	f.sections = append(f.sections, s)
	return s, nil
}

// Comments implements service.Service.
func (f *FakeService) Comments(ctx context.Context, taskID, projectID string) ([]service.Comment, error) {
	if f.CommentsErr != nil {
		return nil, f.CommentsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if taskID != "" {
		return f.comments[taskID], nil
	}
	var result []service.Comment
	for _, cs := range f.comments {
		for _, c := range cs {
			if c.ProjectID == projectID {
				result = append(result, c)
			}
		}
	}
	return result, nil
}

// Collaborators implements service.Service.
func (f *FakeService) Collaborators(ctx context.Context, projectID string) ([]service.Collaborator, error) {
	if f.CollaboratorsErr != nil {
		return nil, f.CollaboratorsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.collaborators[projectID], nil
}
