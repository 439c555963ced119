package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/tasktree/internal/domain"
)

var validate = newValidator()

// newValidator reports fields by their yaml names so messages match the file.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateImportSchema checks field constraints and cross references.
// Returns every problem found, each prefixed with its location.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, structErrors(schema)...)

	p := domain.Project{ShortID: strings.ToUpper(schema.Project.ShortID)}
	if schema.Project.ShortID != "" {
		if err := p.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}

	groupRefs := collectRefs("groups", len(schema.Groups), func(i int) string { return schema.Groups[i].Ref }, &errs)
	labelRefs := collectRefs("labels", len(schema.Labels), func(i int) string { return schema.Labels[i].Ref }, &errs)

	errs = append(errs, validateTasks(schema.Tasks, groupRefs, labelRefs)...)
	return errs
}

func structErrors(schema *ImportSchema) []error {
	err := validate.Struct(schema)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.Namespace(), "ImportSchema.")
		if fe.Param() != "" {
			out = append(out, fmt.Errorf("%s: failed %s=%s", path, fe.Tag(), fe.Param()))
		} else {
			out = append(out, fmt.Errorf("%s: failed %s", path, fe.Tag()))
		}
	}
	return out
}

func collectRefs(section string, n int, ref func(int) string, errs *[]error) map[string]bool {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		r := ref(i)
		if r == "" {
			continue
		}
		if seen[r] {
			*errs = append(*errs, fmt.Errorf("%s[%d].ref: duplicate ref %q", section, i, r))
			continue
		}
		seen[r] = true
	}
	return seen
}

func validateTasks(tasks []TaskImport, groupRefs, labelRefs map[string]bool) []error {
	var errs []error
	taskRefs := make(map[string]bool, len(tasks))

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref != "" && taskRefs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		}

		if t.ParentRef != nil && *t.ParentRef != "" {
			switch {
			case *t.ParentRef == t.Ref:
				errs = append(errs, fmt.Errorf("%s.parent_ref: task cannot be its own parent", prefix))
			case !taskRefs[*t.ParentRef]:
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in tasks list)", prefix, *t.ParentRef))
			}
		}
		if t.Ref != "" {
			taskRefs[t.Ref] = true
		}

		if t.GroupRef != "" && !groupRefs[t.GroupRef] {
			errs = append(errs, fmt.Errorf("%s.group_ref: ref %q not found", prefix, t.GroupRef))
		}
		for j, l := range t.Labels {
			if !labelRefs[l] {
				errs = append(errs, fmt.Errorf("%s.labels[%d]: ref %q not found", prefix, j, l))
			}
		}

		if t.FixedPrice != nil {
			if t.PricingType != string(domain.PricingFixed) {
				errs = append(errs, fmt.Errorf("%s.fixed_price: only allowed with pricing_type fixed", prefix))
			}
			if t.FixedPrice.IsNegative() {
				errs = append(errs, fmt.Errorf("%s.fixed_price: must not be negative", prefix))
			}
		}

		errs = append(errs, validateSubtasks(prefix, t.Subtasks)...)
	}
	return errs
}

func validateSubtasks(taskPrefix string, subtasks []SubtaskImport) []error {
	var errs []error
	refs := make(map[string]bool, len(subtasks))

	for i, s := range subtasks {
		prefix := fmt.Sprintf("%s.subtasks[%d]", taskPrefix, i)
		if s.Ref != "" && refs[s.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, s.Ref))
		}
		if s.ParentRef != nil && *s.ParentRef != "" {
			switch {
			case *s.ParentRef == s.Ref:
				errs = append(errs, fmt.Errorf("%s.parent_ref: subtask cannot be its own parent", prefix))
			case !refs[*s.ParentRef]:
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found among this task's earlier subtasks", prefix, *s.ParentRef))
			}
		}
		if s.Ref != "" {
			refs[s.Ref] = true
		}
	}
	return errs
}
