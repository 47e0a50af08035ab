package session

import (
	"sync"

	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/ssb"
)

// Projector holds the series currently on display. Each request is issued a
// token; only a response carrying the newest token is applied, so a slow
// response can never overwrite the result of a later request.
type Projector struct {
	mu       sync.Mutex
	latest   uint64
	result   models.SeriesResult
	category models.Category
}

// NewProjector creates an empty projector.
func NewProjector() *Projector {
	return &Projector{result: models.SeriesResult{Categories: []string{}, Values: []float64{}}}
}

// Issue allocates the token for a new request, superseding earlier ones.
func (p *Projector) Issue() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest++
	return p.latest
}

// Current reports whether token is the newest issued.
func (p *Projector) Current(token uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return token == p.latest
}

// Apply replaces the result with periods and the dataset's values if token
// is still current, and records category as the series' subject. Lengths are
// not reconciled.
func (p *Projector) Apply(token uint64, category models.Category, periods []string, ds *ssb.Dataset) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.latest {
		return false
	}
	categories := make([]string, len(periods))
	copy(categories, periods)
	p.result = models.SeriesResult{
		Categories: categories,
		Values:     append([]float64{}, ds.Values()...),
	}
	p.category = category
	return true
}

// Category returns the category of the displayed series. ok is false until
// a response has been applied.
func (p *Projector) Category() (category models.Category, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.category, p.category.Code != ""
}

// Result returns a copy of the displayed series.
func (p *Projector) Result() models.SeriesResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return models.SeriesResult{
		Categories: append([]string{}, p.result.Categories...),
		Values:     append([]float64{}, p.result.Values...),
	}
}
