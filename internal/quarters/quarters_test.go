package quarters

import (
	"fmt"
	"reflect"
	"testing"
)

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 60 {
		t.Fatalf("Expected 60 quarters, got %d", len(all))
	}

	i := 0
	for year := 2009; year <= 2023; year++ {
		for q := 1; q <= 4; q++ {
			want := fmt.Sprintf("%dK%d", year, q)
			if all[i] != want {
				t.Errorf("all[%d] = %s, expected %s", i, all[i], want)
			}
			i++
		}
	}
}

func TestPeriodsAscending(t *testing.T) {
	ps := Periods()
	for i := 1; i < len(ps); i++ {
		prev, cur := ps[i-1], ps[i]
		if cur.Year < prev.Year || (cur.Year == prev.Year && cur.Quarter <= prev.Quarter) {
			t.Errorf("periods not strictly ascending at %d: %v then %v", i, prev, cur)
		}
	}
}

func TestAllMemoized(t *testing.T) {
	a := All()
	b := All()
	if &a[0] != &b[0] {
		t.Error("Expected All to return the same backing array on repeated calls")
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Expected identical vocabularies")
	}
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  int
		want    []string
		wantErr bool
	}{
		{name: "first year", lo: 0, hi: 3, want: []string{"2009K1", "2009K2", "2009K3", "2009K4"}},
		{name: "last year", lo: 56, hi: 59, want: []string{"2023K1", "2023K2", "2023K3", "2023K4"}},
		{name: "single", lo: 10, hi: 10, want: []string{"2011K3"}},
		{name: "reversed", lo: 5, hi: 4, wantErr: true},
		{name: "negative", lo: -1, hi: 4, wantErr: true},
		{name: "past end", lo: 0, hi: 60, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slice(tt.lo, tt.hi)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Slice(%d, %d) error = %v, wantErr %v", tt.lo, tt.hi, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Slice(%d, %d) = %v, expected %v", tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestSliceMatchesVocabulary(t *testing.T) {
	all := All()
	for lo := 0; lo < len(all); lo += 7 {
		for hi := lo; hi < len(all); hi += 5 {
			got, err := Slice(lo, hi)
			if err != nil {
				t.Fatalf("Slice(%d, %d): %v", lo, hi, err)
			}
			if len(got) != hi-lo+1 {
				t.Errorf("Slice(%d, %d) has %d entries, expected %d", lo, hi, len(got), hi-lo+1)
			}
			if got[0] != all[lo] || got[len(got)-1] != all[hi] {
				t.Errorf("Slice(%d, %d) endpoints = %s..%s", lo, hi, got[0], got[len(got)-1])
			}
		}
	}
}

func TestSliceIsCopy(t *testing.T) {
	got, _ := Slice(0, 1)
	got[0] = "mutated"
	if All()[0] != "2009K1" {
		t.Error("Slice must not alias the shared vocabulary")
	}
}

func TestIndex(t *testing.T) {
	if i, ok := Index("2023K4"); !ok || i != 59 {
		t.Errorf("Index(2023K4) = %d, %v", i, ok)
	}
	if i, ok := Index("2009K1"); !ok || i != 0 {
		t.Errorf("Index(2009K1) = %d, %v", i, ok)
	}
	if _, ok := Index("2024K1"); ok {
		t.Error("Expected 2024K1 to be outside the vocabulary")
	}
}

func TestAt(t *testing.T) {
	if l, err := At(56); err != nil || l != "2023K1" {
		t.Errorf("At(56) = %s, %v", l, err)
	}
	if _, err := At(60); err == nil {
		t.Error("Expected error for index 60")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"2009K1", 0, false},
		{"2023k4", 59, false},
		{" 2010K1 ", 4, false},
		{"17", 17, false},
		{"59", 59, false},
		{"60", 0, true},
		{"-1", 0, true},
		{"2024K1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
