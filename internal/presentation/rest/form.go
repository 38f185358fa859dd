package rest

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

type formOption struct {
	Value int
	Label string
}

type formField struct {
	Name    string
	Label   string
	Value   int
	Min     int
	Max     int
	Step    int
	Options []formOption
}

type formPage struct {
	Title  string
	Left   []formField
	Right  []formField
	Mirror map[string]string
}

var defaultFormPage = formPage{
	Title: "Credit Risk Prediction",
	Left: []formField{
		{Name: "LIMIT_BAL", Label: "Credit Limit (LIMIT_BAL)", Value: 20000, Step: 1000},
		{Name: "SEX", Label: "Sex", Value: 1, Options: []formOption{{1, "1 = Male"}, {2, "2 = Female"}}},
		{Name: "EDUCATION", Label: "Education", Value: 1, Options: []formOption{
			{1, "1 = Graduate"}, {2, "2 = University"}, {3, "3 = High School"}, {4, "4 = Others"},
		}},
		{Name: "MARRIAGE", Label: "Marriage", Value: 1, Options: []formOption{
			{1, "1 = Married"}, {2, "2 = Single"}, {3, "3 = Others"},
		}},
		{Name: "AGE", Label: "Age", Value: 30, Min: 18, Max: 100, Step: 1},
	},
	Right: []formField{
		{Name: "PAY_0", Label: "Repayment Status (Last Month: PAY_0)", Value: 0, Options: []formOption{
			{-2, "-2"}, {-1, "-1"}, {0, "0"}, {1, "1"}, {2, "2"},
		}},
		{Name: "BILL_AMT1", Label: "Bill Amount (BILL_AMT1)", Value: 5000, Step: 500},
		{Name: "PAY_AMT1", Label: "Payment Amount (PAY_AMT1)", Value: 2000, Step: 100},
		{Name: "BILL_AMT2", Label: "Bill Amount (BILL_AMT2)", Value: 3000, Step: 500},
		{Name: "PAY_AMT2", Label: "Payment Amount (PAY_AMT2)", Value: 1000, Step: 100},
	},
	// The form has no input for PAY_2; it follows PAY_0.
	Mirror: map[string]string{"PAY_2": "PAY_0"},
}

// FormHandler serves the browser form used for manual testing. The form
// posts JSON to /predict like any other client.
type FormHandler struct {
	tmpl   *template.Template
	logger *slog.Logger
}

// NewFormHandler parses the embedded templates.
func NewFormHandler(logger *slog.Logger) (*FormHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &FormHandler{tmpl: tmpl, logger: logger}, nil
}

// RegisterRoutes registers the form endpoint on the provided ServeMux.
func (h *FormHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ui", h.Form)
}

// Form renders the input form.
func (h *FormHandler) Form(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "form.html", defaultFormPage); err != nil {
		h.logger.ErrorContext(r.Context(), "render form", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
