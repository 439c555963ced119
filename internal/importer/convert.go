package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktree/internal/domain"
)

// DefaultGroupName is used when an import file declares no groups.
const DefaultGroupName = "Backlog"

// Generated holds the domain objects produced from an import file, in an
// order that satisfies foreign keys when created front to back.
type Generated struct {
	Project  *domain.Project
	Groups   []*domain.TaskGroup
	Labels   []*domain.Label
	Tasks    []*domain.Task
	Subtasks []*domain.Subtask
}

// Convert transforms a validated ImportSchema into domain objects ready for
// persistence. Call ValidateImportSchema first; Convert assumes the schema
// is valid.
func Convert(schema *ImportSchema) (*Generated, error) {
	now := time.Now().UTC()
	out := &Generated{
		Project: &domain.Project{
			ID:          uuid.New().String(),
			ShortID:     strings.ToUpper(schema.Project.ShortID),
			Name:        schema.Project.Name,
			Description: schema.Project.Description,
			Status:      domain.ProjectActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	projectID := out.Project.ID

	groupIDs := make(map[string]string, len(schema.Groups))
	for i, g := range schema.Groups {
		group := &domain.TaskGroup{
			ID: uuid.New().String(), ProjectID: projectID, Name: g.Name,
			OrderColumn: i, CreatedAt: now, UpdatedAt: now,
		}
		groupIDs[g.Ref] = group.ID
		out.Groups = append(out.Groups, group)
	}
	if len(out.Groups) == 0 {
		out.Groups = append(out.Groups, &domain.TaskGroup{
			ID: uuid.New().String(), ProjectID: projectID, Name: DefaultGroupName,
			CreatedAt: now, UpdatedAt: now,
		})
	}
	defaultGroup := out.Groups[0].ID

	labelIDs := make(map[string]string, len(schema.Labels))
	for _, l := range schema.Labels {
		label := &domain.Label{
			ID: uuid.New().String(), ProjectID: projectID, Name: l.Name,
			Color: l.Color, CreatedAt: now,
		}
		labelIDs[l.Ref] = label.ID
		out.Labels = append(out.Labels, label)
	}

	taskIDs := make(map[string]string, len(schema.Tasks))
	for i, t := range schema.Tasks {
		task := &domain.Task{
			ID:              uuid.New().String(),
			ProjectID:       projectID,
			GroupID:         defaultGroup,
			Name:            t.Name,
			Description:     t.Description,
			AssignedTo:      t.AssignedTo,
			PricingType:     domain.PricingHourly,
			EstimationMin:   t.EstimationMin,
			OrderColumn:     i,
			SubscribedUsers: t.Subscribers,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if gid, ok := groupIDs[t.GroupRef]; ok {
			task.GroupID = gid
		}
		if t.ParentRef != nil {
			if pid, ok := taskIDs[*t.ParentRef]; ok {
				task.ParentID = &pid
			}
		}
		if t.PricingType != "" {
			task.PricingType = domain.PricingType(t.PricingType)
		}
		if t.FixedPrice != nil {
			amount := t.FixedPrice.IntPart()
			task.FixedPrice = &amount
		}
		due, err := parseOptionalDate(t.DueOn)
		if err != nil {
			return nil, fmt.Errorf("tasks[%d].due_on: %w", i, err)
		}
		task.DueOn = due
		for _, ref := range t.Labels {
			task.Labels = append(task.Labels, labelIDs[ref])
		}

		taskIDs[t.Ref] = task.ID
		out.Tasks = append(out.Tasks, task)

		subIDs := make(map[string]string, len(t.Subtasks))
		for j, s := range t.Subtasks {
			sub := &domain.Subtask{
				ID:            uuid.New().String(),
				TaskID:        task.ID,
				Name:          s.Name,
				AssignedTo:    s.AssignedTo,
				EstimationMin: s.EstimationMin,
				OrderColumn:   j,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if s.ParentRef != nil {
				if pid, ok := subIDs[*s.ParentRef]; ok {
					sub.ParentID = &pid
				}
			}
			due, err := parseOptionalDate(s.DueOn)
			if err != nil {
				return nil, fmt.Errorf("tasks[%d].subtasks[%d].due_on: %w", i, j, err)
			}
			sub.DueOn = due
			subIDs[s.Ref] = sub.ID
			out.Subtasks = append(out.Subtasks, sub)
		}
	}

	return out, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
