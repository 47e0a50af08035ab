package ssb

import "math"

// Dataset is a json-stat2 dataset as returned by PxWeb.
// Dimensions carry their own category lists; Value is the flat,
// row-major value array. Suppressed cells are null.
type Dataset struct {
	Version   string               `json:"version"`
	Class     string               `json:"class"`
	Label     string               `json:"label"`
	Source    string               `json:"source"`
	Updated   string               `json:"updated"`
	ID        []string             `json:"id"`
	Size      []int                `json:"size"`
	Dimension map[string]Dimension `json:"dimension"`
	Value     []*float64           `json:"value"`
}

// Dimension describes one axis of the dataset
type Dimension struct {
	Label    string            `json:"label"`
	Category DimensionCategory `json:"category"`
}

// DimensionCategory maps category codes to positions and labels
type DimensionCategory struct {
	Index map[string]int    `json:"index"`
	Label map[string]string `json:"label"`
	Unit  map[string]Unit   `json:"unit,omitempty"`
}

// Unit describes how a content code's values are measured
type Unit struct {
	Base     string `json:"base"`
	Decimals int    `json:"decimals"`
}

// Values returns the value array, never nil. Null cells become NaN.
func (d *Dataset) Values() []float64 {
	if d == nil || d.Value == nil {
		return []float64{}
	}
	out := make([]float64, len(d.Value))
	for i, v := range d.Value {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return out
}

// TableMeta is the PxWeb table metadata document
type TableMeta struct {
	Title     string     `json:"title"`
	Variables []Variable `json:"variables"`
}

// Variable is one selectable table dimension
type Variable struct {
	Code       string   `json:"code"`
	Text       string   `json:"text"`
	Values     []string `json:"values"`
	ValueTexts []string `json:"valueTexts"`
	Time       bool     `json:"time,omitempty"`
}

// Variable looks up a variable by code
func (m *TableMeta) Variable(code string) (Variable, bool) {
	for _, v := range m.Variables {
		if v.Code == code {
			return v, true
		}
	}
	return Variable{}, false
}
