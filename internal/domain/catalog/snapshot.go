package catalog

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Snapshot is the editable state of a product as a flat field map.
// Values are JSON scalars so that snapshots survive a round trip through
// the history table unchanged.
type Snapshot map[string]any

// Snapshot field names
const (
	FieldName              = "name"
	FieldPrice             = "price"
	FieldDiscountPercent   = "discount_percent"
	FieldLowStockThreshold = "low_stock_threshold"
	FieldCategoryID        = "category_id"
	FieldBrandID           = "brand_id"
	FieldStatus            = "status"
)

// Snapshot captures the product's editable fields.
func (p *Product) Snapshot() Snapshot {
	s := Snapshot{
		FieldName:              p.Name,
		FieldPrice:             p.Price.StringFixed(2),
		FieldDiscountPercent:   p.DiscountPercent,
		FieldLowStockThreshold: nil,
		FieldCategoryID:        nil,
		FieldBrandID:           nil,
		FieldStatus:            p.Status.String(),
	}
	if p.LowStockThreshold != nil {
		s[FieldLowStockThreshold] = *p.LowStockThreshold
	}
	if p.CategoryID != nil {
		s[FieldCategoryID] = p.CategoryID.String()
	}
	if p.BrandID != nil {
		s[FieldBrandID] = p.BrandID.String()
	}
	return s
}

// ChangesFromValues converts stored history values back into an edit.
// Unknown keys are ignored.
func ChangesFromValues(values map[string]any) (ProductChanges, error) {
	var c ProductChanges
	for field, raw := range values {
		switch field {
		case FieldName:
			s, err := asString(field, raw)
			if err != nil {
				return c, err
			}
			c.Name = &s
		case FieldPrice:
			s, err := asString(field, raw)
			if err != nil {
				return c, err
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return c, shared.NewValidationError("Invalid stored price %q", s)
			}
			c.Price = &d
		case FieldDiscountPercent:
			n, err := asInt(field, raw)
			if err != nil {
				return c, err
			}
			c.DiscountPercent = &n
		case FieldLowStockThreshold:
			if raw == nil {
				c.ClearThreshold = true
				continue
			}
			n, err := asInt(field, raw)
			if err != nil {
				return c, err
			}
			c.LowStockThreshold = &n
		case FieldCategoryID, FieldBrandID:
			if raw == nil {
				continue
			}
			s, err := asString(field, raw)
			if err != nil {
				return c, err
			}
			id, err := uuid.Parse(s)
			if err != nil {
				return c, shared.NewValidationError("Invalid stored %s %q", field, s)
			}
			if field == FieldCategoryID {
				c.CategoryID = &id
			} else {
				c.BrandID = &id
			}
		case FieldStatus:
			s, err := asString(field, raw)
			if err != nil {
				return c, err
			}
			st := ProductStatus(s)
			c.Status = &st
		}
	}
	return c, nil
}

// Diff returns the sorted names of fields whose values differ between before
// and after, with their old and new values. A nil before yields every field
// of after.
func Diff(before, after Snapshot) ([]string, map[string]any, map[string]any) {
	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	var fields []string
	oldValues := make(map[string]any)
	newValues := make(map[string]any)
	for k := range keys {
		ov, okOld := before[k]
		nv, okNew := after[k]
		if okOld && okNew && sameValue(ov, nv) {
			continue
		}
		fields = append(fields, k)
		oldValues[k] = ov
		newValues[k] = nv
	}
	sort.Strings(fields)
	return fields, oldValues, newValues
}

// sameValue compares scalars by their printed form so that 5 and 5.0 (the
// latter after a JSON round trip) are equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", shared.NewValidationError("Stored %s is not a string", field)
	}
	return s, nil
}

func asInt(field string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err == nil {
			return i, nil
		}
	}
	return 0, shared.NewValidationError("Stored %s is not an integer", field)
}
