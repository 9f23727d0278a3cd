package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"strings"
	"testing"
	"time"

	"todoist/internal/commands"
	"todoist/internal/config"
	"todoist/internal/exitcode"
	"todoist/internal/service"
	"todoist/internal/testutil"
)

// runCommand parses args through the command's own flags and runs it
// against a FakeService, the way the dispatcher would.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("flag parse failed: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code = cmd.Run(context.Background(), cfg, svc, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "todoist 0.1.0 (go") {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
	for _, name := range []string{"auth", "projects", "tasks", "filter", "doctor"} {
		if !strings.Contains(stdout, "todoist "+name) {
			t.Errorf("help output should mention %q", name)
		}
	}
}

// Tests for projects command
func TestProjectsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("6XG4v4GcxWFqCcfJ", "Inbox", true)
	svc.AddProject("6XG4v4Gd2PRMXPC2", "Work", false)

	stdout, stderr, code := runCommand(t, &commands.ProjectsCmd{}, svc, nil)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	testutil.Golden(t, "projects", []byte(stdout))
}

func TestProjectsCommand_Error(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ProjectsErr = service.ErrTimeout

	_, stderr, code := runCommand(t, &commands.ProjectsCmd{}, svc, nil)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "Check your network connection or try again.") {
		t.Errorf("expected timeout guidance on stderr, got %q", stderr)
	}
}

// Tests for sections command
func TestSectionsCommand_ByProjectName(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)
	svc.AddSectionFixture("s1", "p1", "Backlog")
	svc.AddSectionFixture("s2", "p2", "Elsewhere")

	stdout, stderr, code := runCommand(t, &commands.SectionsCmd{}, svc, []string{"--project", "work"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}

	var sections []service.Section
	if err := json.Unmarshal([]byte(stdout), &sections); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(sections) != 1 || sections[0].Name != "Backlog" {
		t.Errorf("expected the Work section only, got %+v", sections)
	}
}

func TestSectionsCommand_ProjectNotFound(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)

	_, stderr, code := runCommand(t, &commands.SectionsCmd{}, svc, []string{"--project", "No Such Project"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: project not found: No Such Project\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for tasks command
func TestTasksCommand_CommentsInline(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)
	svc.AddTaskFixture(service.Task{ID: "t1", ProjectID: "p1", Content: "Write report"})
	svc.AddTaskFixture(service.Task{ID: "t2", ProjectID: "p1", Content: "Review draft"})
	svc.AddCommentFixture("t2", service.Comment{ID: "c1", Content: "Looks good"})

	stdout, stderr, code := runCommand(t, &commands.TasksCmd{}, svc, []string{"--project", "Work"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}

	var tasks []struct {
		ID       string            `json:"id"`
		Comments []service.Comment `json:"comments"`
	}
	if err := json.Unmarshal([]byte(stdout), &tasks); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Comments == nil || len(tasks[0].Comments) != 0 {
		t.Errorf("task without comments should have an empty comments array, got %+v", tasks[0].Comments)
	}
	if len(tasks[1].Comments) != 1 || tasks[1].Comments[0].Content != "Looks good" {
		t.Errorf("expected the comment inline, got %+v", tasks[1].Comments)
	}
}

func TestTasksCommand_LabelFilter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTaskFixture(service.Task{ID: "t1", Content: "Urgent thing", Labels: []string{"urgent"}})
	svc.AddTaskFixture(service.Task{ID: "t2", Content: "Normal thing"})

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, svc, []string{"--label", "urgent"})

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Urgent thing") || strings.Contains(stdout, "Normal thing") {
		t.Errorf("expected only the labelled task, got %q", stdout)
	}
}

func TestTasksCommand_AgeFlagsConflict(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, svc,
		[]string{"--older-than", "30d", "--created-before", "2026-01-01"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: cannot use both --older-than and --created-before\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestTasksCommand_OlderThan(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -60).Format("2006-01-02T15:04:05") + ".000000Z"
	recent := now.AddDate(0, 0, -5).Format("2006-01-02T15:04:05") + ".000000Z"

	svc := testutil.NewFakeService()
	svc.AddTaskFixture(service.Task{ID: "t1", Content: "Stale", CreatedAt: old})
	svc.AddTaskFixture(service.Task{ID: "t2", Content: "Fresh", CreatedAt: recent})

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, svc, []string{"--older-than", "30d"})

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Stale") || strings.Contains(stdout, "Fresh") {
		t.Errorf("expected only the stale task, got %q", stdout)
	}
}

func TestTasksCommand_OlderThanBadFormat(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, svc, []string{"--older-than", "30x"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "'30d', '2w', or '3m'") {
		t.Errorf("expected format guidance, got %q", stderr)
	}
}

func TestTasksCommand_SectionRequiresProject(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, svc, []string{"--section", "Backlog"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: --section requires --project or --project-id\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestTasksCommand_AssigneeFilter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)
	svc.AddCollaboratorFixture("p1", service.Collaborator{ID: "u1", Name: "Alice", Email: "alice@example.com"})
	svc.AddTaskFixture(service.Task{ID: "t1", ProjectID: "p1", Content: "Hers", AssigneeID: "u1"})
	svc.AddTaskFixture(service.Task{ID: "t2", ProjectID: "p1", Content: "Unassigned"})

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, svc,
		[]string{"--project", "Work", "--assignee", "alice@example.com"})

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "Hers") || strings.Contains(stdout, "Unassigned") {
		t.Errorf("expected only the assigned task, got %q", stdout)
	}
}

func TestTasksCommand_IncludeSectionName(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)
	svc.AddSectionFixture("s1", "p1", "Backlog")
	svc.AddTaskFixture(service.Task{ID: "t1", ProjectID: "p1", SectionID: "s1", Content: "Thing"})

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, svc,
		[]string{"--project", "Work", "--include-section-name"})

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, `"section_name": "Backlog"`) {
		t.Errorf("expected section_name in output, got %q", stdout)
	}
}

// Tests for task command
func TestTaskCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTaskFixture(service.Task{ID: "t1", ProjectID: "p1", Content: "Write report"})
	svc.AddCommentFixture("t1", service.Comment{ID: "c1", Content: "First draft done"})

	stdout, stderr, code := runCommand(t, &commands.TaskCmd{}, svc, []string{"t1"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "First draft done") {
		t.Errorf("expected comment inline, got %q", stdout)
	}
}

func TestTaskCommand_NotFound(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.TaskCmd{}, svc, []string{"xyz"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: task 'xyz' not found or invalid\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestTaskCommand_MissingArg(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.TaskCmd{}, svc, nil)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "task ID required") {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

// Tests for filter command
func TestFilterCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.FilterResults = []service.Task{{ID: "t1", Content: "Due today"}}

	stdout, stderr, code := runCommand(t, &commands.FilterCmd{}, svc, []string{"today"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "Due today") {
		t.Errorf("expected filter results, got %q", stdout)
	}
	// Filter output is the raw task list, no comment enrichment.
	if strings.Contains(stdout, `"comments"`) {
		t.Errorf("filter output should not carry a comments key, got %q", stdout)
	}
}

func TestFilterCommand_QueryRequired(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.FilterCmd{}, svc, nil)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "filter query required") {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)
	svc.AddSectionFixture("s1", "p1", "Backlog")

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc,
		[]string{"--project", "Work", "--section", "Backlog", "--priority", "4", "Buy", "milk"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}

	var task service.Task
	if err := json.Unmarshal([]byte(stdout), &task); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if task.Content != "Buy milk" {
		t.Errorf("expected content %q, got %q", "Buy milk", task.Content)
	}
	if task.ProjectID != "p1" || task.SectionID != "s1" {
		t.Errorf("expected resolved project and section, got %+v", task)
	}
	if task.Priority != 4 {
		t.Errorf("expected priority 4, got %d", task.Priority)
	}
}

func TestAddCommand_ContentRequired(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, nil)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "task content required") {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

func TestAddCommand_PriorityOutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"--priority", "5", "Thing"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "--priority must be 1-4") {
		t.Errorf("expected priority error, got %q", stderr)
	}
}

// Tests for update command
func TestUpdateCommand_MoveAndUpdate(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)
	svc.AddProject("p2", "Home", false)
	svc.AddTaskFixture(service.Task{ID: "t1", ProjectID: "p1", Content: "Old content"})

	stdout, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc,
		[]string{"--project", "Home", "--content", "New content", "t1"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}

	got, ok := svc.TaskFixture("t1")
	if !ok {
		t.Fatal("task disappeared")
	}
	if got.ProjectID != "p2" {
		t.Errorf("expected task moved to p2, got %q", got.ProjectID)
	}
	if got.Content != "New content" {
		t.Errorf("expected content updated, got %q", got.Content)
	}
	if !strings.Contains(stdout, "New content") {
		t.Errorf("expected the updated task printed, got %q", stdout)
	}
}

func TestUpdateCommand_ClearDescription(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTaskFixture(service.Task{ID: "t1", Content: "Thing", Description: "old notes"})

	_, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, []string{"--description", "", "t1"})

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr: %q)", code, stderr)
	}
	got, _ := svc.TaskFixture("t1")
	if got.Description != "" {
		t.Errorf("expected description cleared, got %q", got.Description)
	}
}

func TestUpdateCommand_NoParameters(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTaskFixture(service.Task{ID: "t1", Content: "Thing"})

	_, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, []string{"t1"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: no update parameters provided\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestUpdateCommand_WorkspaceMove(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p2", "Team", false)
	svc.AddTaskFixture(service.Task{ID: "t1", ProjectID: "p1", Content: "Thing"})
	svc.MoveTaskErr = service.ErrWorkspaceMove

	_, stderr, code := runCommand(t, &commands.UpdateCmd{}, svc, []string{"--project", "Team", "t1"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "cannot move tasks between workspaces") {
		t.Errorf("expected workspace move error, got %q", stderr)
	}
	if !strings.Contains(stderr, "Workaround:") {
		t.Errorf("expected workaround guidance, got %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTaskFixture(service.Task{ID: "t1", Content: "Thing"})

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"t1"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if !svc.Completed("t1") {
		t.Error("expected the task to be completed")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if result["success"] != true || result["task_id"] != "t1" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestDoneCommand_NotFound(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"nope"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: task 'nope' not found or invalid\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for add-section command
func TestAddSectionCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddProject("p1", "Work", false)

	stdout, stderr, code := runCommand(t, &commands.AddSectionCmd{}, svc,
		[]string{"--project", "Work", "Launch", "website"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}

	var section service.Section
	if err := json.Unmarshal([]byte(stdout), &section); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if section.Name != "Launch website" || section.ProjectID != "p1" {
		t.Errorf("unexpected section: %+v", section)
	}
}

func TestAddSectionCommand_ProjectRequired(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddSectionCmd{}, svc, []string{"Outcome"})

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if !strings.Contains(stderr, "--project-id or --project is required") {
		t.Errorf("expected project requirement error, got %q", stderr)
	}
}

// Tests for comments and collaborators commands
func TestCommentsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTaskFixture(service.Task{ID: "t1", Content: "Thing"})
	svc.AddCommentFixture("t1", service.Comment{ID: "c1", Content: "A note"})

	stdout, stderr, code := runCommand(t, &commands.CommentsCmd{}, svc, []string{"--task-id", "t1"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "A note") {
		t.Errorf("expected the comment in output, got %q", stdout)
	}
}

func TestCommentsCommand_IDRequired(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.CommentsCmd{}, svc, nil)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: --task-id or --project-id is required\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestCollaboratorsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddCollaboratorFixture("p1", service.Collaborator{ID: "u1", Name: "Alice", Email: "alice@example.com"})

	stdout, stderr, code := runCommand(t, &commands.CollaboratorsCmd{}, svc, []string{"--project-id", "p1"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr: %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, "alice@example.com") {
		t.Errorf("expected the collaborator in output, got %q", stdout)
	}
}

func TestCollaboratorsCommand_ProjectRequired(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.CollaboratorsCmd{}, svc, nil)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	expected := "error: --project-id is required\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Error mapping
func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", service.ErrUnauthorized, "token expired or revoked (run: todoist auth)"},
		{"rate limited", service.ErrRateLimited, "rate limited by Todoist"},
		{"connection", service.ErrConnection, "could not connect to Todoist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			svc.ProjectsErr = tc.err

			_, stderr, code := runCommand(t, &commands.ProjectsCmd{}, svc, nil)

			if code != exitcode.Failure {
				t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
			}
			if !strings.Contains(stderr, tc.want) {
				t.Errorf("expected %q on stderr, got %q", tc.want, stderr)
			}
		})
	}
}
