package query

// Payload is the PxWeb request body for a table query.
type Payload struct {
	Query    []Filter        `json:"query"`
	Response ResponseOptions `json:"response"`
}

// Filter restricts one table dimension.
type Filter struct {
	Code      string    `json:"code"`
	Selection Selection `json:"selection"`
}

// Selection lists the dimension values to keep.
type Selection struct {
	Filter string   `json:"filter"`
	Values []string `json:"values"`
}

// ResponseOptions selects the response format.
type ResponseOptions struct {
	Format string `json:"format"`
}

func itemFilter(code string, values ...string) Filter {
	return Filter{
		Code: code,
		Selection: Selection{
			Filter: "item",
			Values: values,
		},
	}
}

// Values returns the selected values for a dimension code, or nil.
func (p Payload) Values(code string) []string {
	for _, f := range p.Query {
		if f.Code == code {
			return f.Selection.Values
		}
	}
	return nil
}
