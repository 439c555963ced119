package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestMarkCompleted(t *testing.T) {
	task := &Task{ID: "t1"}
	task.MarkCompleted(testNow)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
	assert.True(t, task.IsCompleted())
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestMarkCompleted_KeepsOriginalTimestamp(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	task := &Task{ID: "t1", CompletedAt: &earlier}
	task.MarkCompleted(testNow)
	assert.Equal(t, earlier, *task.CompletedAt)
}

func TestReopen(t *testing.T) {
	done := testNow.Add(-time.Hour)
	task := &Task{ID: "t1", CompletedAt: &done}
	require.NoError(t, task.Reopen(testNow))
	assert.Nil(t, task.CompletedAt)
	assert.False(t, task.IsCompleted())
}

func TestReopen_NotCompleted(t *testing.T) {
	task := &Task{ID: "t1"}
	err := task.Reopen(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not completed")
}

func TestApplyPricingType_HourlyClearsFixedPrice(t *testing.T) {
	price := int64(15000)
	task := &Task{PricingType: PricingFixed, FixedPrice: &price}
	task.ApplyPricingType(PricingHourly)
	assert.Equal(t, PricingHourly, task.PricingType)
	assert.Nil(t, task.FixedPrice)
}

func TestApplyPricingType_FixedKeepsPrice(t *testing.T) {
	price := int64(15000)
	task := &Task{PricingType: PricingFixed, FixedPrice: &price}
	task.ApplyPricingType(PricingFixed)
	require.NotNil(t, task.FixedPrice)
	assert.Equal(t, int64(15000), *task.FixedPrice)
}
