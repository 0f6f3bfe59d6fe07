// Package web holds the HTML templates rendered by the handlers.
package web

import (
	"embed"
	"html/template"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap returns the helpers available inside templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":         money.Format,
		"categoryLabel": func(c models.Category) string { return c.Label() },
		"categories":    func() []models.CategoryOption { return models.Categories },
		"date":          func(t time.Time) string { return t.Format("2006-01-02") },
		"monthLabel":    MonthLabel,
		"percent":       Percent,
	}
}

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is like Templates but panics on a parse error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// MonthLabel turns "2024-01" into "January 2024". Unparseable input is
// returned unchanged.
func MonthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}

// Percent is part's share of total in whole percent, used for chart bars.
func Percent(part, total int64) int64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	return part * 100 / total
}
