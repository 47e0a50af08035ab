package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a selection's indices violate 0 <= lo <= hi < n.
var ErrInvalidRange = errors.New("invalid quarter range")

// Selection is the user's current choice: an inclusive index range into the
// quarters vocabulary and a category code.
type Selection struct {
	Lo   int    `json:"lo"`
	Hi   int    `json:"hi"`
	Type string `json:"type"`
}

// DefaultSelection is the selection a fresh session starts with (2023K1-2023K4, all dwellings).
func DefaultSelection() Selection {
	return Selection{Lo: 56, Hi: 59, Type: DefaultCategoryCode}
}

// Validate checks the selection against a vocabulary of n periods.
func (s Selection) Validate(n int) error {
	if s.Lo < 0 || s.Hi >= n || s.Lo > s.Hi {
		return fmt.Errorf("%w: [%d, %d] with %d periods", ErrInvalidRange, s.Lo, s.Hi, n)
	}
	if _, ok := LookupCategory(s.Type); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, s.Type)
	}
	return nil
}

// Record snapshots the selection for the history log.
func (s Selection) Record() QueryRecord {
	return QueryRecord{Range: [2]int{s.Lo, s.Hi}, Type: s.Type}
}
