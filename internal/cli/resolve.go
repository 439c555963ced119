package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktree/internal/repository"
)

// resolveProjectID matches input against short IDs, full IDs and then
// unique ID prefixes, in that order.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) || p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveGroupID accepts a group name (case-insensitive) or ID prefix.
func resolveGroupID(ctx context.Context, app *App, projectID, input string) (string, error) {
	groups, err := app.Groups.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	for _, g := range groups {
		if strings.EqualFold(g.Name, input) || g.ID == input {
			return g.ID, nil
		}
	}
	for _, g := range groups {
		if strings.HasPrefix(g.ID, input) {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("group not found: %q", input)
}

// resolveLabelIDs maps label names or IDs to IDs within a project.
func resolveLabelIDs(ctx context.Context, app *App, projectID string, inputs []string) ([]string, error) {
	labels, err := app.Labels.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		found := ""
		for _, l := range labels {
			if strings.EqualFold(l.Name, in) || l.ID == in {
				found = l.ID
				break
			}
		}
		if found == "" {
			return nil, fmt.Errorf("label not found: %q", in)
		}
		ids = append(ids, found)
	}
	return ids, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolveParentRef expands a parent ID prefix. A reference that matches
// nothing is passed through as typed so the mutator can decide on it;
// ambiguous prefixes and store errors are returned.
func resolveParentRef(ctx context.Context, resolve func(context.Context, string) (string, error), ref string) (string, error) {
	id, err := resolve(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		return ref, nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
