package models

import (
	"sort"
	"strings"
)

// Attribute keys used for variant selection at checkout
const (
	AttrSize  = "size"
	AttrColor = "color"
)

// Attributes maps a normalized (lower-case) attribute name to its value.
type Attributes map[string]string

// NormalizeAttributes lower-cases and trims keys. Values keep their case
// because comparison on values is case-insensitive anyway.
func NormalizeAttributes(in map[string]string) Attributes {
	out := make(Attributes, len(in))
	for k, v := range in {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}

// Get looks up an attribute regardless of the case the caller used for the key.
func (a Attributes) Get(key string) string {
	return a[strings.ToLower(strings.TrimSpace(key))]
}

// Key renders the attribute set as a stable identifier, e.g. "color=red;size=m".
func (a Attributes) Key() string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.ToLower(a[k]))
	}
	return strings.Join(parts, ";")
}

// VariantKeyFor builds the key for a size/color selection
func VariantKeyFor(size, color string) string {
	attrs := Attributes{}
	if size != "" {
		attrs[AttrSize] = size
	}
	if color != "" {
		attrs[AttrColor] = color
	}
	return attrs.Key()
}

// Matches reports whether the variant satisfies the given size and color.
// Empty selectors match anything.
func (v ProductVariant) Matches(size, color string) bool {
	if size != "" && !strings.EqualFold(v.Size(), strings.TrimSpace(size)) {
		return false
	}
	if color != "" && !strings.EqualFold(v.Color(), strings.TrimSpace(color)) {
		return false
	}
	return true
}

// FindVariant returns the index of the first variant matching size and color.
func FindVariant(variants []ProductVariant, size, color string) (int, bool) {
	for i, v := range variants {
		if v.Matches(size, color) {
			return i, true
		}
	}
	return -1, false
}

// FindVariantByKey returns the index of the variant with the given key.
func FindVariantByKey(variants []ProductVariant, key string) (int, bool) {
	for i, v := range variants {
		if v.VariantKey == key {
			return i, true
		}
	}
	return -1, false
}

// SumStock adds up the stock of every variant
func SumStock(variants []ProductVariant) int {
	total := 0
	for _, v := range variants {
		total += v.Stock
	}
	return total
}

// WithVariantStock returns a copy of variants where the variant at idx holds qty.
// Negative quantities clamp to zero.
func WithVariantStock(variants []ProductVariant, idx int, qty int) []ProductVariant {
	out := make([]ProductVariant, len(variants))
	copy(out, variants)
	if idx < 0 || idx >= len(out) {
		return out
	}
	if qty < 0 {
		qty = 0
	}
	out[idx].Stock = qty
	return out
}

// RecomputeAggregate derives TotalStock and InStock from the variant list.
// Products without variants keep TotalStock as the authoritative count.
func (p *Product) RecomputeAggregate() {
	if len(p.Variants) > 0 {
		p.TotalStock = SumStock(p.Variants)
	}
	if p.TotalStock < 0 {
		p.TotalStock = 0
	}
	p.InStock = p.TotalStock > 0
}

// UpsertVariant adds the variant or replaces the one with the same key, then
// recomputes the aggregate over the whole list.
func (p *Product) UpsertVariant(v ProductVariant) {
	v.Attributes = NormalizeAttributes(v.Attributes)
	v.VariantKey = v.Attributes.Key()
	v.ProductID = p.ID
	if v.Stock < 0 {
		v.Stock = 0
	}
	if idx, ok := FindVariantByKey(p.Variants, v.VariantKey); ok {
		v.ID = p.Variants[idx].ID
		v.Position = p.Variants[idx].Position
		p.Variants[idx] = v
	} else {
		v.Position = len(p.Variants)
		p.Variants = append(p.Variants, v)
	}
	p.RecomputeAggregate()
}

// AvailableStock returns the stock that backs a checkout line: the variant at
// idx, or TotalStock when the product has no variants (idx < 0).
func (p *Product) AvailableStock(idx int) int {
	if idx >= 0 && idx < len(p.Variants) {
		return p.Variants[idx].Stock
	}
	return p.TotalStock
}
