package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rewired-gh/boligpris/internal/chart"
	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/quarters"
	"github.com/rewired-gh/boligpris/internal/session"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "")
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := s.sess.Submit(r.Context(), sel)
	if err != nil {
		// Out-of-set categories cannot come from the form's select.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The page is rendered after the fetch so the chart is current; a failed
	// fetch leaves the previous chart in place and is only logged.
	if err := sub.Wait(r.Context()); err != nil {
		logger.Debug("Search completed with error: %v", err)
	}

	s.render(w, http.StatusOK, s.nav.URL())
}

// handleSelect records a moved handle or changed category without searching.
// A prompt that is still open saves whatever is selected when it is confirmed.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.sess.Select(sel); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	err := s.sess.Confirm(r.FormValue("prompt_id"))
	if errors.Is(err, session.ErrNoPrompt) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		logger.Error("Failed to save history: %v", err)
	}
	s.render(w, http.StatusOK, "")
}

func (s *Server) handleDecline(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.Decline(r.FormValue("prompt_id")); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.render(w, http.StatusOK, "")
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	opts := s.chartOpts
	if c, ok := s.sess.DisplayedCategory(); ok {
		opts.Title = c.Label
	}

	img, err := chart.RenderBar(s.sess.Result(), opts)
	if errors.Is(err, chart.ErrEmptySeries) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		logger.Error("Failed to render chart: %v", err)
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", opts.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.History())
}

func (s *Server) handleQuarters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, quarters.All())
}

type stateResponse struct {
	State     string              `json:"state"`
	Outcome   string              `json:"outcome"`
	Error     string              `json:"error,omitempty"`
	Selection models.Selection    `json:"selection"`
	Displayed string              `json:"displayed_type,omitempty"`
	PromptID  string              `json:"prompt_id,omitempty"`
	Result    models.SeriesResult `json:"result"`
	URL       string              `json:"url"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	outcome, lastErr := s.sess.LastOutcome()
	resp := stateResponse{
		State:     s.sess.State().String(),
		Outcome:   outcome.String(),
		Selection: s.sess.Selection(),
		Result:    s.sess.Result(),
		URL:       s.nav.URL(),
	}
	if lastErr != nil {
		resp.Error = lastErr.Error()
	}
	if c, ok := s.sess.DisplayedCategory(); ok {
		resp.Displayed = c.Code
	}
	if p, ok := s.sess.Prompt(); ok {
		resp.PromptID = p.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseSelection reads lo, hi and type from the form. The two range handles
// may cross; the lower one is taken as the start.
func parseSelection(r *http.Request) (models.Selection, error) {
	lo, err := strconv.Atoi(r.FormValue("lo"))
	if err != nil {
		return models.Selection{}, errors.New("lo must be an integer")
	}
	hi, err := strconv.Atoi(r.FormValue("hi"))
	if err != nil {
		return models.Selection{}, errors.New("hi must be an integer")
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	typ := r.FormValue("type")
	if typ == "" {
		typ = models.DefaultCategoryCode
	}
	sel := models.Selection{Lo: lo, Hi: hi, Type: typ}
	if err := sel.Validate(quarters.Len()); err != nil {
		return models.Selection{}, err
	}
	return sel, nil
}
