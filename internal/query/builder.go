// Package query translates a selection into a PxWeb request payload and keeps
// the current view's canonical query string in sync.
package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/quarters"
)

// Query parameter names written to the navigator.
const (
	ParamRange = "range"
	ParamType  = "type"
)

// Options names the table dimensions and the fixed metric.
type Options struct {
	TypeDimension     string
	ContentsDimension string
	TimeDimension     string
	ContentsCode      string
	Format            string
}

// DefaultOptions matches SSB table 07241 (price index for dwellings).
func DefaultOptions() Options {
	return Options{
		TypeDimension:     "Boligtype",
		ContentsDimension: "ContentsCode",
		TimeDimension:     "Tid",
		ContentsCode:      "KvPris",
		Format:            "json-stat2",
	}
}

// Query is a built request together with what it was built from.
type Query struct {
	Selection models.Selection
	Category  models.Category
	Periods   []string
	Payload   Payload
}

// RangeLabel renders the range as "{start}-{end}".
func (q *Query) RangeLabel() string {
	return q.Periods[0] + "-" + q.Periods[len(q.Periods)-1]
}

// Builder builds queries and publishes their canonical parameters.
type Builder struct {
	opts Options
	nav  Navigator
}

// NewBuilder creates a builder. nav may be nil when no address needs updating.
func NewBuilder(opts Options, nav Navigator) *Builder {
	return &Builder{opts: opts, nav: nav}
}

// Build computes the inclusive period slice for sel and the request payload,
// then overwrites the "range" and "type" parameters on the navigator.
func (b *Builder) Build(sel models.Selection) (*Query, error) {
	if err := sel.Validate(quarters.Len()); err != nil {
		return nil, err
	}
	category, _ := models.LookupCategory(sel.Type)

	periods, err := quarters.Slice(sel.Lo, sel.Hi)
	if err != nil {
		return nil, fmt.Errorf("slice quarters: %w", err)
	}

	q := &Query{
		Selection: sel,
		Category:  category,
		Periods:   periods,
		Payload: Payload{
			Query: []Filter{
				itemFilter(b.opts.TypeDimension, sel.Type),
				itemFilter(b.opts.ContentsDimension, b.opts.ContentsCode),
				itemFilter(b.opts.TimeDimension, periods...),
			},
			Response: ResponseOptions{Format: b.opts.Format},
		},
	}

	if b.nav != nil {
		b.nav.SetQueryParam(ParamRange, q.RangeLabel())
		b.nav.SetQueryParam(ParamType, EscapeLabel(category.Label))
	}

	return q, nil
}

// componentUnescape restores the marks a URI component may carry literally.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeLabel percent-escapes a category label for the "type" parameter
// the way a URI component is escaped: everything but letters, digits and
// -_.!~*'() is encoded ("Småhus" becomes "Sm%C3%A5hus", spaces "%20").
func EscapeLabel(label string) string {
	return componentUnescape.Replace(url.QueryEscape(label))
}
