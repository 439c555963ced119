package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a project import file.
// Refs are file-local names; real IDs are assigned on conversion.
type ImportSchema struct {
	Project ProjectImport `json:"project" yaml:"project"`
	Groups  []GroupImport `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive"`
	Labels  []LabelImport `json:"labels,omitempty" yaml:"labels,omitempty" validate:"dive"`
	Tasks   []TaskImport  `json:"tasks" yaml:"tasks" validate:"dive"`
}

type ProjectImport struct {
	ShortID     string `json:"short_id" yaml:"short_id" validate:"required"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type GroupImport struct {
	Ref  string `json:"ref" yaml:"ref" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

type LabelImport struct {
	Ref   string `json:"ref" yaml:"ref" validate:"required"`
	Name  string `json:"name" yaml:"name" validate:"required"`
	Color string `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
}

type TaskImport struct {
	Ref           string           `json:"ref" yaml:"ref" validate:"required"`
	ParentRef     *string          `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	GroupRef      string           `json:"group_ref,omitempty" yaml:"group_ref,omitempty"`
	Name          string           `json:"name" yaml:"name" validate:"required"`
	Description   string           `json:"description,omitempty" yaml:"description,omitempty"`
	AssignedTo    *string          `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	PricingType   string           `json:"pricing_type,omitempty" yaml:"pricing_type,omitempty" validate:"omitempty,oneof=hourly fixed"`
	FixedPrice    *decimal.Decimal `json:"fixed_price,omitempty" yaml:"fixed_price,omitempty"`
	EstimationMin int              `json:"estimation_min,omitempty" yaml:"estimation_min,omitempty" validate:"min=0"`
	DueOn         string           `json:"due_on,omitempty" yaml:"due_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Labels        []string         `json:"labels,omitempty" yaml:"labels,omitempty"`
	Subscribers   []string         `json:"subscribers,omitempty" yaml:"subscribers,omitempty" validate:"dive,required"`
	Subtasks      []SubtaskImport  `json:"subtasks,omitempty" yaml:"subtasks,omitempty" validate:"dive"`
}

type SubtaskImport struct {
	Ref           string  `json:"ref" yaml:"ref" validate:"required"`
	ParentRef     *string `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Name          string  `json:"name" yaml:"name" validate:"required"`
	AssignedTo    *string `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	EstimationMin int     `json:"estimation_min,omitempty" yaml:"estimation_min,omitempty" validate:"min=0"`
	DueOn         string  `json:"due_on,omitempty" yaml:"due_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// LoadImportSchema reads a project import file. ".json" files are parsed
// as JSON; everything else as YAML.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// ParseImportSchema decodes raw file contents.
func ParseImportSchema(data []byte, isJSON bool) (*ImportSchema, error) {
	var schema ImportSchema
	if isJSON {
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		return &schema, nil
	}
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
