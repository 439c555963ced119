package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/alexanderramin/tasktree/internal/hierarchy"
)

func TestCommandFor(t *testing.T) {
	parent := "abc"
	price := decimal.RequireFromString("1250")

	tests := []struct {
		field, value string
		want         hierarchy.Command
	}{
		{"parent_id", "abc", hierarchy.SetParent{ParentID: &parent}},
		{"parent_id", "root", hierarchy.SetParent{}},
		{"parent_id", "", hierarchy.SetParent{}},
		{"pricing_type", "fixed", hierarchy.SetPricingType{Type: domain.PricingFixed}},
		{"fixed_price", "none", hierarchy.SetFixedPrice{}},
		{"group", "Doing", hierarchy.SetGroup{GroupID: "Doing"}},
		{"labels", "a, b,,", hierarchy.ReplaceLabels{IDs: []string{"a", "b"}}},
		{"subscribers", "", hierarchy.ReplaceSubscribers{}},
		{"Estimation_Min", " 30 ", hierarchy.SetField{Name: "estimation_min", Value: "30"}},
		{"order_column", "2", hierarchy.SetField{Name: "order_column", Value: "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			got, err := commandFor(tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := commandFor("fixed_price", "12.50")
	require.NoError(t, err)
	fp, ok := got.(hierarchy.SetFixedPrice)
	require.True(t, ok)
	assert.True(t, price.Equal(*fp.Amount))
}

func TestCommandFor_Invalid(t *testing.T) {
	for _, tc := range [][2]string{
		{"pricing_type", "weekly"},
		{"fixed_price", "abc"},
		{"fixed_price", "-1"},
		{"group_id", ""},
		{"", "x"},
	} {
		_, err := commandFor(tc[0], tc[1])
		assert.Error(t, err, tc)
	}
}

func TestSplitOtherField(t *testing.T) {
	f, v := splitOtherField("other", "description=new text=ok")
	assert.Equal(t, "description", f)
	assert.Equal(t, "new text=ok", v)

	f, v = splitOtherField("name", "x")
	assert.Equal(t, "name", f)
	assert.Equal(t, "x", v)

	assert.Error(t, validateFieldValue("other", "missing"))
	assert.NoError(t, validateFieldValue("name", ""))
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseOptionalDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	_, err = parseOptionalDate("03/01/2026")
	assert.Error(t, err)
}
