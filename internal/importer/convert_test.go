package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktree/internal/domain"
)

func TestConvert_FullFixture(t *testing.T) {
	s, err := ParseImportSchema([]byte(yamlFixture), false)
	require.NoError(t, err)
	require.Empty(t, ValidateImportSchema(s))

	g, err := Convert(s)
	require.NoError(t, err)

	assert.Equal(t, "SHOP01", g.Project.ShortID)
	assert.Equal(t, domain.ProjectActive, g.Project.Status)
	require.Len(t, g.Groups, 1)
	require.Len(t, g.Labels, 1)
	require.Len(t, g.Tasks, 2)
	require.Len(t, g.Subtasks, 2)

	checkout, tests := g.Tasks[0], g.Tasks[1]
	assert.Equal(t, g.Project.ID, checkout.ProjectID)
	assert.Equal(t, g.Groups[0].ID, checkout.GroupID)
	assert.Equal(t, domain.PricingFixed, checkout.PricingType)
	require.NotNil(t, checkout.FixedPrice)
	assert.Equal(t, int64(1250), *checkout.FixedPrice)
	require.NotNil(t, checkout.DueOn)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *checkout.DueOn)
	assert.Equal(t, []string{g.Labels[0].ID}, checkout.Labels)
	assert.Nil(t, checkout.ParentID)

	require.NotNil(t, tests.ParentID)
	assert.Equal(t, checkout.ID, *tests.ParentID)
	assert.Equal(t, domain.PricingHourly, tests.PricingType)
	assert.Equal(t, 1, tests.OrderColumn)

	cart, pay := g.Subtasks[0], g.Subtasks[1]
	assert.Equal(t, checkout.ID, cart.TaskID)
	require.NotNil(t, pay.ParentID)
	assert.Equal(t, cart.ID, *pay.ParentID)
	assert.Equal(t, 1, pay.OrderColumn)
}

func TestConvert_DefaultGroup(t *testing.T) {
	g, err := Convert(validMinimalSchema())
	require.NoError(t, err)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, DefaultGroupName, g.Groups[0].Name)
	assert.Equal(t, g.Groups[0].ID, g.Tasks[0].GroupID)
}

func TestConvert_ShortIDUppercased(t *testing.T) {
	s := validMinimalSchema()
	s.Project.ShortID = "web01"
	g, err := Convert(s)
	require.NoError(t, err)
	assert.Equal(t, "WEB01", g.Project.ShortID)
}

func TestConvert_UniqueIDs(t *testing.T) {
	s, err := ParseImportSchema([]byte(yamlFixture), false)
	require.NoError(t, err)
	g, err := Convert(s)
	require.NoError(t, err)

	seen := map[string]bool{g.Project.ID: true}
	for _, task := range g.Tasks {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
	for _, sub := range g.Subtasks {
		assert.False(t, seen[sub.ID])
		seen[sub.ID] = true
	}
}
