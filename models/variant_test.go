package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesKey(t *testing.T) {
	attrs := NormalizeAttributes(map[string]string{" Size ": "M", "COLOR": "Red", "": "x"})
	assert.Equal(t, "color=red;size=m", attrs.Key())
	assert.Equal(t, "M", attrs.Get("SIZE"))
	assert.Equal(t, attrs.Key(), VariantKeyFor("m", "RED"))
	assert.Equal(t, "size=l", VariantKeyFor("L", ""))
	assert.Empty(t, VariantKeyFor("", ""))
	assert.Empty(t, Attributes{}.Key())
}

func TestFindVariant(t *testing.T) {
	variants := []ProductVariant{
		{Attributes: Attributes{"size": "M", "color": "Red"}},
		{Attributes: Attributes{"size": "L", "color": "Red"}},
		{Attributes: Attributes{"size": "M", "color": "Blue"}},
	}

	tests := []struct {
		name        string
		size, color string
		want        int
		found       bool
	}{
		{"exact", "M", "Blue", 2, true},
		{"case insensitive", "l", "RED", 1, true},
		{"size only picks first", "M", "", 0, true},
		{"color only", "", "blue", 2, true},
		{"no selectors picks first", "", "", 0, true},
		{"missing", "XL", "", -1, false},
		{"padded", " l ", " red ", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := FindVariant(variants, tt.size, tt.color)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, idx)
		})
	}
}

func TestWithVariantStock(t *testing.T) {
	variants := []ProductVariant{{Stock: 3}, {Stock: 5}}

	out := WithVariantStock(variants, 1, 9)
	assert.Equal(t, 9, out[1].Stock)
	assert.Equal(t, 5, variants[1].Stock, "input must not be modified")

	out = WithVariantStock(variants, 0, -4)
	assert.Equal(t, 0, out[0].Stock)

	out = WithVariantStock(variants, 7, 1)
	assert.Equal(t, variants, out)
}

func TestUpsertVariant(t *testing.T) {
	p := &Product{ID: "tee", Variants: []ProductVariant{
		{ID: 11, Attributes: Attributes{"size": "M"}, VariantKey: "size=m", Stock: 3, Position: 0},
	}}
	p.RecomputeAggregate()
	require.Equal(t, 3, p.TotalStock)

	p.UpsertVariant(ProductVariant{Attributes: Attributes{"SIZE": "m"}, Stock: 7})
	require.Len(t, p.Variants, 1)
	assert.Equal(t, uint(11), p.Variants[0].ID)
	assert.Equal(t, 7, p.TotalStock)

	p.UpsertVariant(ProductVariant{Attributes: Attributes{"size": "L"}, Stock: -2})
	require.Len(t, p.Variants, 2)
	assert.Equal(t, 1, p.Variants[1].Position)
	assert.Equal(t, "tee", p.Variants[1].ProductID)
	assert.Equal(t, 0, p.Variants[1].Stock)
	assert.Equal(t, 7, p.TotalStock)
	assert.True(t, p.InStock)
}

func TestRecomputeAggregate(t *testing.T) {
	p := &Product{TotalStock: 4}
	p.RecomputeAggregate()
	assert.Equal(t, 4, p.TotalStock, "products without variants keep their count")
	assert.True(t, p.InStock)

	p = &Product{TotalStock: 10, Variants: []ProductVariant{{Stock: 0}, {Stock: 0}}}
	p.RecomputeAggregate()
	assert.Zero(t, p.TotalStock)
	assert.False(t, p.InStock)

	p = &Product{TotalStock: -1}
	p.RecomputeAggregate()
	assert.Zero(t, p.TotalStock)
}

func TestAvailableStock(t *testing.T) {
	p := &Product{TotalStock: 8, Variants: []ProductVariant{{Stock: 2}, {Stock: 6}}}
	assert.Equal(t, 6, p.AvailableStock(1))
	assert.Equal(t, 8, p.AvailableStock(-1))
	assert.Equal(t, 8, p.AvailableStock(5))
}
