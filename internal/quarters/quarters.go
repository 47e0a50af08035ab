// Package quarters provides the fixed, ordered vocabulary of calendar quarters
// that the range selector indexes into.
//
// Labels follow SSB's time code format "{year}K{quarter}" (2009K1, 2009K2, ...).
// The vocabulary is computed once per process and never changes, so an index
// always denotes the same quarter.
package quarters

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	// FirstYear is the first year in the vocabulary (inclusive).
	FirstYear = 2009
	// LastYear is the last year in the vocabulary (inclusive).
	LastYear = 2023
	// PerYear is the number of quarters per year.
	PerYear = 4
)

// Period is one calendar quarter.
type Period struct {
	Year    int
	Quarter int
}

// Label renders the period as "{year}K{quarter}".
func (p Period) Label() string {
	return fmt.Sprintf("%dK%d", p.Year, p.Quarter)
}

var (
	once    sync.Once
	periods []Period
	labels  []string
	index   map[string]int
)

func generate() {
	n := (LastYear - FirstYear + 1) * PerYear
	periods = make([]Period, 0, n)
	labels = make([]string, 0, n)
	index = make(map[string]int, n)
	for year := FirstYear; year <= LastYear; year++ {
		for q := 1; q <= PerYear; q++ {
			p := Period{Year: year, Quarter: q}
			index[p.Label()] = len(labels)
			periods = append(periods, p)
			labels = append(labels, p.Label())
		}
	}
}

// All returns the labels of every period in ascending order.
// The returned slice is shared; callers must not modify it.
func All() []string {
	once.Do(generate)
	return labels
}

// Periods returns every period in ascending order.
func Periods() []Period {
	once.Do(generate)
	return periods
}

// Len returns the number of periods in the vocabulary.
func Len() int {
	return len(All())
}

// At returns the label at index i.
func At(i int) (string, error) {
	all := All()
	if i < 0 || i >= len(all) {
		return "", fmt.Errorf("quarter index %d out of range [0, %d]", i, len(all)-1)
	}
	return all[i], nil
}

// Slice returns a copy of the labels from lo to hi, both inclusive.
func Slice(lo, hi int) ([]string, error) {
	all := All()
	if lo < 0 || hi >= len(all) || lo > hi {
		return nil, fmt.Errorf("invalid quarter range [%d, %d]", lo, hi)
	}
	out := make([]string, hi-lo+1)
	copy(out, all[lo:hi+1])
	return out, nil
}

// Index resolves a label such as "2023K4" to its position in the vocabulary.
func Index(label string) (int, bool) {
	once.Do(generate)
	i, ok := index[label]
	return i, ok
}

// Parse accepts either a label (case-insensitive, "2023k4") or a numeric
// index and returns the index.
func Parse(s string) (int, error) {
	if i, ok := Index(strings.ToUpper(strings.TrimSpace(s))); ok {
		return i, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 0 || i >= Len() {
		all := All()
		return 0, fmt.Errorf("unknown quarter %q (use %s..%s or 0..%d)", s, all[0], all[len(all)-1], len(all)-1)
	}
	return i, nil
}
