package commands

import (
	"context"
	"fmt"
	"strings"

	"todoist/internal/service"
)

// projectAliases maps GTD-context names onto each other: depending on
// account shape the root project is called "Inbox" (personal accounts)
// or "Personal" (accounts with a team workspace). Asking for one
// resolves to the other when the first is absent.
var projectAliases = map[string]string{
	"personal": "inbox",
	"inbox":    "personal",
}

// resolveProject maps a human-readable project name to its ID. Exact
// case-insensitive match first, then the documented aliases, then ID
// passthrough for inputs that look like IDs. A miss is a not-found
// error, distinguishable from network failures via errors.Is.
func resolveProject(ctx context.Context, svc service.Service, nameOrID string) (string, error) {
	projects, err := svc.Projects(ctx)
	if err != nil {
		return "", err
	}

	want := strings.ToLower(strings.TrimSpace(nameOrID))
	for _, p := range projects {
		if strings.ToLower(p.Name) == want {
			return p.ID, nil
		}
	}

	if alias, ok := projectAliases[want]; ok {
		for _, p := range projects {
			if strings.ToLower(p.Name) == alias {
				return p.ID, nil
			}
		}
		// Last resort for the root project: the API marks it.
		for _, p := range projects {
			if p.IsInboxProject {
				return p.ID, nil
			}
		}
	}

	// Not found by name; an ID-shaped input is passed through as-is.
	if nameOrID != "" && !strings.Contains(nameOrID, " ") {
		return nameOrID, nil
	}

	return "", fmt.Errorf("project %q: %w", nameOrID, service.ErrNotFound)
}

// resolveSection maps a section name to its ID within a project.
// Name match first; short ID-shaped inputs fall through as IDs.
func resolveSection(ctx context.Context, svc service.Service, projectID, nameOrID string) (string, error) {
	sections, err := svc.Sections(ctx, projectID)
	if err != nil {
		return "", err
	}

	want := strings.ToLower(strings.TrimSpace(nameOrID))
	for _, s := range sections {
		if strings.ToLower(s.Name) == want {
			return s.ID, nil
		}
	}

	if nameOrID != "" && !strings.Contains(nameOrID, " ") {
		return nameOrID, nil
	}

	return "", fmt.Errorf("section %q: %w", nameOrID, service.ErrNotFound)
}

// resolveAssignee maps a collaborator name or email to a user ID.
func resolveAssignee(ctx context.Context, svc service.Service, projectID, nameOrEmail string) (string, error) {
	collaborators, err := svc.Collaborators(ctx, projectID)
	if err != nil {
		return "", err
	}

	want := strings.ToLower(strings.TrimSpace(nameOrEmail))
	for _, c := range collaborators {
		if strings.ToLower(c.Name) == want || strings.ToLower(c.Email) == want {
			return c.ID, nil
		}
	}

	return "", fmt.Errorf("collaborator %q: %w", nameOrEmail, service.ErrNotFound)
}
