package models

import (
	"fmt"

	"github.com/rewired-gh/boligpris/internal/quarters"
)

// QueryRecord is one entry of the persisted history log.
// The JSON shape {"range":[lo,hi],"type":"02"} is the storage format.
type QueryRecord struct {
	Range [2]int `json:"range" yaml:"range,flow"`
	Type  string `json:"type" yaml:"type"`
}

// Selection restores the selection the record was taken from.
func (r QueryRecord) Selection() Selection {
	return Selection{Lo: r.Range[0], Hi: r.Range[1], Type: r.Type}
}

// String renders the record for people, e.g. "Småhus 2023K1-2023K4".
// Records written by other tools may hold unknown codes or indices; those
// are shown raw.
func (r QueryRecord) String() string {
	label := r.Type
	if c, ok := LookupCategory(r.Type); ok {
		label = c.Label
	}
	from, errFrom := quarters.At(r.Range[0])
	to, errTo := quarters.At(r.Range[1])
	if errFrom != nil || errTo != nil {
		return fmt.Sprintf("%s [%d, %d]", label, r.Range[0], r.Range[1])
	}
	return fmt.Sprintf("%s %s-%s", label, from, to)
}
