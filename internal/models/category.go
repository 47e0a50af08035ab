// Package models defines the domain types shared by every front-end:
// housing categories, the user's selection, persisted query records and
// the series currently displayed.
//
// Terminology (matching SSB table 07241):
//   - Category: a "Boligtype" code such as "02" (Småhus).
//   - Period: a quarter label from the quarters vocabulary, e.g. "2023K1".
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category code is outside the fixed set.
// It indicates a configuration or caller error and is not recovered from.
var ErrUnknownCategory = errors.New("unknown category code")

// Category is one selectable housing type.
type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// DefaultCategoryCode is preselected in every front-end.
const DefaultCategoryCode = "00"

// Categories is the closed set of recognized housing types, in display order.
var Categories = []Category{
	{Code: "00", Label: "Boliger i alt"},
	{Code: "02", Label: "Småhus"},
	{Code: "03", Label: "Blokkleiligheter"},
}

// LookupCategory returns the category for code.
func LookupCategory(code string) (Category, bool) {
	for _, c := range Categories {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

// ParseCategory accepts a code ("02") or a label, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if s == c.Code || strings.EqualFold(s, c.Label) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}
