package models

import (
	"encoding/json"
	"math"
)

// SeriesResult is the chart data derived from one query response.
// Categories and Values are expected to have equal length but this is not
// enforced; consumers should draw only the first Points() pairs.
// A NaN value marks a quarter the source published no figure for.
type SeriesResult struct {
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
}

// Empty reports whether there is nothing to draw.
func (r SeriesResult) Empty() bool {
	return r.Points() == 0
}

// Points is the number of complete (category, value) pairs.
func (r SeriesResult) Points() int {
	if len(r.Values) < len(r.Categories) {
		return len(r.Values)
	}
	return len(r.Categories)
}

// Missing reports whether the value at i is absent.
func (r SeriesResult) Missing(i int) bool {
	return math.IsNaN(r.Values[i])
}

type seriesJSON struct {
	Categories []string   `json:"categories"`
	Values     []*float64 `json:"values"`
}

// MarshalJSON writes missing values as null.
func (r SeriesResult) MarshalJSON() ([]byte, error) {
	out := seriesJSON{Categories: r.Categories, Values: make([]*float64, len(r.Values))}
	for i, v := range r.Values {
		if !math.IsNaN(v) {
			v := v
			out.Values[i] = &v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null values as missing.
func (r *SeriesResult) UnmarshalJSON(data []byte) error {
	var in seriesJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Categories = in.Categories
	r.Values = make([]float64, len(in.Values))
	for i, v := range in.Values {
		if v == nil {
			r.Values[i] = math.NaN()
			continue
		}
		r.Values[i] = *v
	}
	return nil
}
