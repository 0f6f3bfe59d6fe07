package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/models"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "register.html", "login.html", "forgot_password.html",
		"reset_link_sent.html", "reset_password.html", "dashboard.html",
		"expense_form.html", "confirm_delete.html", "view_expense.html",
		"filter_expense.html", "monthly_expense.html", "expense_chart.html",
		"admin_index.html", "admin_list.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), "missing template %s", name)
	}
}

func TestViewExpenseRenders(t *testing.T) {
	tmpl := MustTemplates()
	user := &models.User{Username: "alice"}
	expense := models.Expense{Amount: 1050, Category: models.CategoryFood, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Description: "Lunch"}
	expense.ID = "exp-1"

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "view_expense.html", map[string]interface{}{
		"Title":       "Expenses",
		"CurrentUser": user,
		"Flash":       "Expense added successfully.",
		"Expenses":    []models.Expense{expense},
		"Total":       int64(1050),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Expense added successfully.")
	assert.Contains(t, out, "Log out (alice)")
	assert.Contains(t, out, "2024-01-05")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "10.50")
	assert.Contains(t, out, "/expense/edit/exp-1")
}

func TestAnonymousHeader(t *testing.T) {
	tmpl := MustTemplates()

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "error.html", map[string]interface{}{
		"Title":       "Not Found",
		"Status":      404,
		"Message":     "Expense not found",
		"CurrentUser": (*models.User)(nil),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Log in")
	assert.NotContains(t, buf.String(), "Log out")
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "January 2024", MonthLabel("2024-01"))
	assert.Equal(t, "garbage", MonthLabel("garbage"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(50), Percent(5, 10))
	assert.Equal(t, int64(0), Percent(5, 0))
	assert.Equal(t, int64(100), Percent(10, 10))
}
