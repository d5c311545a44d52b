package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shopkeep/internal/domain"
)

func form(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestParseItemForm_OK(t *testing.T) {
	in, verr := ParseItemForm(form(map[string]string{
		"name":              " Widget ",
		"description":       "Blue",
		"purchasePrice":     "4.25",
		"sellingPrice":      "10",
		"quantity":          "7",
		"lowStockThreshold": "2",
	}))
	require.Nil(t, verr)
	require.Equal(t, "Widget", in.Name)
	require.Equal(t, "4.25", in.PurchasePrice.String())
	require.Equal(t, 7, in.Quantity)
	require.Equal(t, 2, in.LowStockThreshold)
}

func TestParseItemForm_FieldMessages(t *testing.T) {
	_, verr := ParseItemForm(form(map[string]string{
		"name":              "",
		"description":       "x",
		"purchasePrice":     "abc",
		"sellingPrice":      "-0.01",
		"quantity":          "1.5",
		"lowStockThreshold": "-2",
	}))
	require.NotNil(t, verr)
	require.ErrorIs(t, verr, domain.ErrValidation)
	require.Equal(t, map[string][]string{
		"name":              {"Name is required"},
		"purchasePrice":     {"Purchase price must be non-negative"},
		"sellingPrice":      {"Selling price must be non-negative"},
		"quantity":          {"Quantity must be a non-negative integer"},
		"lowStockThreshold": {"Threshold must be a non-negative integer"},
	}, verr.Fields)
}

func TestSellQty(t *testing.T) {
	for in, want := range map[string]int{"1": 1, " 12 ": 12} {
		n, ok := SellQty(in)
		require.True(t, ok, in)
		require.Equal(t, want, n)
	}
	for _, in := range []string{"", "0", "-1", "1.5", "two"} {
		_, ok := SellQty(in)
		require.False(t, ok, in)
	}
}

func TestID(t *testing.T) {
	id, ok := ID(" 0190a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b ")
	require.True(t, ok)
	require.Equal(t, "0190a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b", id)
	for _, bad := range []string{"", "a b", "../etc", "x;drop"} {
		_, ok := ID(bad)
		require.False(t, ok, bad)
	}
}
