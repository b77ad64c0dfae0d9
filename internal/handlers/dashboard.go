package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"time"

	"samarth-platform/internal/models"
	"samarth-platform/internal/nlsql"
	"samarth-platform/internal/services"
	"samarth-platform/pkg/logging"
	"samarth-platform/pkg/render"
)

// ModelFailureMessage is shown when no executable SQL came back.
const ModelFailureMessage = "Failed to generate valid SQL. Is Ollama running?"

const sampleLabelWidth = 60

type sampleLink struct {
	Number   int
	Label    string
	Question string
}

type dashboardView struct {
	Samples   []sampleLink
	Question  string
	Answer    *models.Answer
	Message   string
	SQLError  string
	Columns   []string
	Rows      [][]string
	Citations []models.Citation
}

type dashboardPage struct {
	tmpl *template.Template
}

func newDashboardPage() *dashboardPage {
	return &dashboardPage{tmpl: template.Must(template.New("dashboard").Parse(dashboardHTML))}
}

// Dashboard handles GET /
func (h *QAHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/", time.Now())

	question := r.URL.Query().Get("q")
	if question == "" {
		question = nlsql.SampleQuestions[0]
	}
	h.renderPage(w, r, h.newView(question))
}

// SubmitQuestion handles POST / from the dashboard form.
func (h *QAHandler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/", time.Now())

	r.Body = http.MaxBytesReader(w, r.Body, maxQuestionBytes)
	if err := r.ParseForm(); err != nil {
		h.sendError(w, r, "invalid form body", http.StatusBadRequest)
		return
	}

	view := h.newView(r.PostFormValue("question"))
	if err := validateQuestion(view.Question); err != nil {
		h.metrics.RecordAPIError("validation", "/")
		view.Message = err.Error()
		h.renderPage(w, r, view)
		return
	}

	answer := h.qaService.Answer(ctx, view.Question)
	view.Answer = answer

	switch {
	case answer.State == models.StateModelError, errors.Is(answer.Err, services.ErrNotSelect):
		view.Message = ModelFailureMessage
	case answer.State == models.StateParseExecuteError:
		view.SQLError = answer.Error
	case answer.State == models.StateResultReady:
		view.Columns = answer.Result.Columns
		for _, row := range answer.Result.Rows {
			view.Rows = append(view.Rows, render.Row(row))
		}
		view.Citations = answer.Citations
		answer.MarkPresented()
	}

	h.renderPage(w, r, view)
}

func (h *QAHandler) newView(question string) *dashboardView {
	view := &dashboardView{Question: question}
	for i, q := range nlsql.SampleQuestions {
		label := q
		if r := []rune(q); len(r) > sampleLabelWidth {
			label = string(r[:sampleLabelWidth]) + "..."
		}
		view.Samples = append(view.Samples, sampleLink{Number: i + 1, Label: label, Question: q})
	}
	return view
}

func (h *QAHandler) renderPage(w http.ResponseWriter, r *http.Request, view *dashboardView) {
	var buf bytes.Buffer
	if err := h.page.tmpl.Execute(&buf, view); err != nil {
		h.logger.Error(r.Context(), "[DASHBOARD_RENDER_ERROR] Failed to render dashboard", logging.Fields{}, err)
		h.metrics.RecordAPIError("render", "/")
		h.sendError(w, r, "failed to render page", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/", r.Method, "200")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Project Samarth</title>
    <style>
        body { font-family: sans-serif; margin: 0; display: flex; }
        aside { width: 22rem; padding: 1rem; background: #f4f6f0; min-height: 100vh; }
        aside a { display: block; margin-bottom: .6rem; color: #2d5016; }
        main { flex: 1; padding: 1rem 2rem; }
        textarea { width: 100%; height: 7rem; }
        pre { background: #272822; color: #f8f8f2; padding: 1rem; overflow-x: auto; }
        table { border-collapse: collapse; }
        th, td { border: 1px solid #ccc; padding: .3rem .6rem; text-align: left; }
        .error { color: #a00; }
        .citation { color: #555; font-size: .9rem; }
    </style>
</head>
<body>
<aside>
    <h3>Sample Questions</h3>
    {{range .Samples}}<a href="/?q={{.Question}}">Q{{.Number}}: {{.Label}}</a>
    {{end}}
</aside>
<main>
    <h1>Project Samarth: Intelligent Q&amp;A on Indian Agriculture &amp; Climate</h1>
    <p><strong>Live data.gov.in</strong> &rarr; <strong>Local LLM</strong> &rarr; <strong>SQL Answer</strong> &rarr; <strong>Citation</strong></p>
    <form method="POST" action="/">
        <label for="question">Your Question:</label>
        <textarea id="question" name="question">{{.Question}}</textarea>
        <button type="submit">Get Answer</button>
    </form>
    {{if .Message}}<p class="error">{{.Message}}</p>{{end}}
    {{with .Answer}}{{if and .SQL (not $.Message)}}<pre><code>{{.SQL}}</code></pre>{{end}}{{end}}
    {{if .SQLError}}<p class="error">SQL Error: {{.SQLError}}</p>{{end}}
    {{if .Columns}}
    <h3>Answer</h3>
    <table>
        <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
        {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
        {{end}}
    </table>
    <h3>Citation</h3>
    {{range .Citations}}<p class="citation"><strong>{{.Label}} Data</strong>: {{.Path}}</p>
    {{end}}
    {{end}}
    <hr>
    <p class="citation">Built with Ollama + Llama 3.1 8B | DuckDB | Go | data.gov.in</p>
</main>
</body>
</html>`
