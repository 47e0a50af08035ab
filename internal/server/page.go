package server

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/quarters"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="no">
<head>
<meta charset="utf-8">
<title>Boligpriser</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2em auto; }
.range { display: grid; grid-template-columns: 5em 1fr 5em; gap: 1em; align-items: center; }
.range input[type=text] { width: 5em; }
dialog { border: 2px solid #000; padding: 1em 2em; }
</style>
</head>
<body>
<form method="post" action="/search" id="search-form">
  <label>Quarters range</label>
  <div class="range">
    <input type="text" id="lo-label" value="{{.LoLabel}}" readonly>
    <div>
      <input type="range" name="lo" id="lo" min="0" max="{{.Max}}" step="1" value="{{.Selection.Lo}}">
      <input type="range" name="hi" id="hi" min="0" max="{{.Max}}" step="1" value="{{.Selection.Hi}}">
    </div>
    <input type="text" id="hi-label" value="{{.HiLabel}}" readonly>
  </div>
  <label for="type">Building type</label>
  <select name="type" id="type">
  {{- range .Categories}}
    <option value="{{.Code}}"{{if eq .Code $.Selection.Type}} selected{{end}}>{{.Label}}</option>
  {{- end}}
  </select>
  <button type="submit">Search</button>
</form>

{{if .Prompt}}
<dialog open>
  <p>Do you want to save search entry in the history?</p>
  <form method="post" action="/history/confirm" style="display:inline">
    <input type="hidden" name="prompt_id" value="{{.Prompt}}">
    <button type="submit">Yes</button>
  </form>
  <form method="post" action="/history/decline" style="display:inline">
    <input type="hidden" name="prompt_id" value="{{.Prompt}}">
    <button type="submit">Cancel</button>
  </form>
</dialog>
{{end}}

{{if .HasChart}}
<img src="/chart?v={{.Version}}" alt="{{.SeriesLabel}}">
{{end}}

<script>
const labels = {{.Labels}};
const form = document.getElementById("search-form");
for (const id of ["lo", "hi"]) {
  const input = document.getElementById(id);
  input.addEventListener("input", () => {
    document.getElementById(id + "-label").value = labels[input.value];
  });
}
for (const id of ["lo", "hi", "type"]) {
  document.getElementById(id).addEventListener("change", () => {
    fetch("/select", {method: "POST", body: new URLSearchParams(new FormData(form))});
  });
}
{{if .PushURL}}history.pushState({}, "", {{.PushURL}});{{end}}
</script>
</body>
</html>
`))

type pageData struct {
	Selection   models.Selection
	Categories  []models.Category
	Labels      []string
	Max         int
	LoLabel     string
	HiLabel     string
	Prompt      string
	HasChart    bool
	SeriesLabel string
	Version     int64
	PushURL     string
}

// render writes the form page. pushURL, when set, replaces the address bar
// entry without reloading.
func (s *Server) render(w http.ResponseWriter, status int, pushURL string) {
	sel := s.sess.Selection()
	labels := quarters.All()

	data := pageData{
		Selection:   sel,
		Categories:  models.Categories,
		Labels:      labels,
		Max:         len(labels) - 1,
		LoLabel:     labels[sel.Lo],
		HiLabel:     labels[sel.Hi],
		HasChart:    !s.sess.Result().Empty(),
		SeriesLabel: s.chartOpts.SeriesLabel,
		Version:     time.Now().UnixNano(),
		PushURL:     pushURL,
	}
	if p, ok := s.sess.Prompt(); ok {
		data.Prompt = p.ID
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		logger.Error("Failed to render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
