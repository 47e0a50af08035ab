package chart

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/rewired-gh/boligpris/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderBar_PNG(t *testing.T) {
	res := models.SeriesResult{
		Categories: []string{"2023K1", "2023K2", "2023K3", "2023K4"},
		Values:     []float64{41234, 42817, 42101, 40877},
	}
	opts := DefaultOptions()
	opts.Title = "Småhus"

	img, err := RenderBar(res, opts)
	if err != nil {
		t.Fatalf("RenderBar failed: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("Expected PNG output")
	}
}

func TestRenderBar_SVG(t *testing.T) {
	res := models.SeriesResult{Categories: []string{"2009K1"}, Values: []float64{25000}}
	opts := DefaultOptions()
	opts.Format = FormatSVG

	img, err := RenderBar(res, opts)
	if err != nil {
		t.Fatalf("RenderBar failed: %v", err)
	}
	if !bytes.Contains(img, []byte("<svg")) {
		t.Error("Expected SVG output")
	}
	if opts.ContentType() != "image/svg+xml" {
		t.Errorf("ContentType = %s", opts.ContentType())
	}
}

func TestRenderBar_Empty(t *testing.T) {
	tests := []models.SeriesResult{
		{},
		{Categories: []string{"2023K1", "2023K2"}, Values: []float64{}},
	}
	for _, res := range tests {
		if _, err := RenderBar(res, DefaultOptions()); !errors.Is(err, ErrEmptySeries) {
			t.Errorf("RenderBar(%+v) error = %v, expected ErrEmptySeries", res, err)
		}
	}
}

func TestRenderBar_MismatchedLengths(t *testing.T) {
	res := models.SeriesResult{
		Categories: []string{"2023K1", "2023K2", "2023K3"},
		Values:     []float64{1, 2},
	}
	if _, err := RenderBar(res, DefaultOptions()); err != nil {
		t.Errorf("Mismatched lengths should render the complete pairs, got %v", err)
	}
}

func TestRenderBar_WholeVocabularyFits(t *testing.T) {
	res := models.SeriesResult{Categories: make([]string, 60), Values: make([]float64, 60)}
	for i := range res.Values {
		res.Categories[i] = "q"
		res.Values[i] = float64(20000 + i*300)
	}
	if _, err := RenderBar(res, DefaultOptions()); err != nil {
		t.Errorf("RenderBar with 60 bars failed: %v", err)
	}
}

func TestRenderBar_MissingValues(t *testing.T) {
	res := models.SeriesResult{
		Categories: []string{"2023K1", "2023K2", "2023K3"},
		Values:     []float64{41234, math.NaN(), 42101},
	}
	img, err := RenderBar(res, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderBar failed: %v", err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("Expected PNG output")
	}

	allMissing := models.SeriesResult{Categories: []string{"2023K1"}, Values: []float64{math.NaN()}}
	if _, err := RenderBar(allMissing, DefaultOptions()); err != nil {
		t.Errorf("RenderBar with only missing values failed: %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{41234, "41,234"},
		{999.6, "1,000"},
		{0, "0"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, expected %q", tt.v, got, tt.want)
		}
	}
}
