package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

const recentExpenseCount = 5

// SummaryHandler serves the dashboard, monthly summary and chart pages
type SummaryHandler struct {
	expenseService services.ExpenseServicer
	now            func() time.Time
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(expenseService services.ExpenseServicer) *SummaryHandler {
	return &SummaryHandler{expenseService: expenseService, now: time.Now}
}

// CategorySummary is a category total with its display label
type CategorySummary struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Total    int64           `json:"total"`
	Count    int64           `json:"count"`
}

// ChartData is the JSON payload behind the chart page
type ChartData struct {
	Monthly    []services.MonthlyTotal `json:"monthly"`
	Categories []CategorySummary       `json:"categories"`
}

// Dashboard shows this month's and all-time totals, the per-category
// breakdown and the latest expenses.
func (h *SummaryHandler) Dashboard(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	now := h.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	monthTotal, err := h.expenseService.TotalAmount(user.ID, services.ExpenseFilter{FromDate: &monthStart})
	if err != nil {
		fail(c, err)
		return
	}

	categories, err := h.expenseService.CategoryTotals(user.ID, services.ExpenseFilter{})
	if err != nil {
		fail(c, err)
		return
	}

	recent, err := h.expenseService.RecentExpenses(user.ID, recentExpenseCount)
	if err != nil {
		fail(c, err)
		return
	}

	var total int64
	for _, ct := range categories {
		total += ct.Total
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title":      "Dashboard",
		"MonthTotal": monthTotal,
		"Total":      total,
		"Categories": categories,
		"Recent":     recent,
	})
}

// Monthly lists the current user's spending per calendar month, newest first
func (h *SummaryHandler) Monthly(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	months, err := h.expenseService.MonthlyTotals(user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "monthly_expense.html", gin.H{
		"Title":  "Monthly summary",
		"Months": months,
	})
}

// Chart renders monthly and per-category bars
func (h *SummaryHandler) Chart(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	data, err := h.chartData(user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	var maxMonth, total int64
	for _, m := range data.Monthly {
		if m.Total > maxMonth {
			maxMonth = m.Total
		}
	}
	for _, ct := range data.Categories {
		total += ct.Total
	}

	render(c, http.StatusOK, "expense_chart.html", gin.H{
		"Title":      "Spending chart",
		"Months":     data.Monthly,
		"MaxMonth":   maxMonth,
		"Categories": data.Categories,
		"Total":      total,
	})
}

// ChartJSON returns the chart series as JSON
func (h *SummaryHandler) ChartJSON(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.chartData(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *SummaryHandler) chartData(userID string) (*ChartData, error) {
	monthly, err := h.expenseService.MonthlyTotals(userID)
	if err != nil {
		return nil, err
	}
	totals, err := h.expenseService.CategoryTotals(userID, services.ExpenseFilter{})
	if err != nil {
		return nil, err
	}

	if monthly == nil {
		monthly = []services.MonthlyTotal{}
	}
	return &ChartData{Monthly: monthly, Categories: labelCategories(totals)}, nil
}

func labelCategories(totals []services.CategoryTotal) []CategorySummary {
	out := make([]CategorySummary, 0, len(totals))
	for _, t := range totals {
		out = append(out, CategorySummary{
			Category: t.Category,
			Label:    t.Category.Label(),
			Total:    t.Total,
			Count:    t.Count,
		})
	}
	return out
}
