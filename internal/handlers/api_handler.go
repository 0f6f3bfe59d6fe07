package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/services"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and the message
type ErrorBody struct {
	Code    string `json:"code" example:"EXPENSE_NOT_FOUND"`
	Message string `json:"message" example:"Expense not found"`
}

// ExpensePage is a page of expenses
type ExpensePage = pagination.PageResponse[models.Expense]

// APIHandler serves the read-only JSON API for the signed-in user
type APIHandler struct {
	expenseService services.ExpenseServicer
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(expenseService services.ExpenseServicer) *APIHandler {
	return &APIHandler{expenseService: expenseService}
}

// ListExpensesQuery holds the query parameters of ListExpenses
type ListExpensesQuery struct {
	pagination.PageRequest
	Category string `form:"category" binding:"omitempty,expense_category"`
}

// Health reports that the server is up
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListExpenses returns the user's expenses, newest first
// @Summary     List expenses
// @Description Get a paginated list of the current user's expenses, optionally narrowed to one category
// @Tags        expenses
// @Produce     json
// @Param       category  query    string false "Category"
// @Param       page      query    int    false "Page number"      minimum(1)
// @Param       page_size query    int    false "Items per page"   minimum(1) maximum(100)
// @Success     200 {object} ExpensePage
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /v1/expenses [get]
func (h *APIHandler) ListExpenses(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListExpensesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ExpenseFilter
	if q.Category != "" {
		category := models.Category(q.Category)
		filter.Category = &category
	}

	page, err := h.expenseService.ListExpensesPage(user.ID, filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetExpense returns one of the user's expenses
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Param       id  path     string true "Expense ID"
// @Success     200 {object} models.Expense
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /v1/expenses/{id} [get]
func (h *APIHandler) GetExpense(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseExpenseID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(user.ID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// MonthlySummary returns the user's totals per month
// @Summary     Monthly totals
// @Description Sum of the current user's expenses per calendar month, newest first
// @Tags        summary
// @Produce     json
// @Success     200 {array}  services.MonthlyTotal
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /v1/summary/monthly [get]
func (h *APIHandler) MonthlySummary(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := h.expenseService.MonthlyTotals(user.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if months == nil {
		months = []services.MonthlyTotal{}
	}
	c.JSON(http.StatusOK, months)
}

// CategorySummary returns the user's totals per category
// @Summary     Category totals
// @Description Sum of the current user's expenses per category, largest first
// @Tags        summary
// @Produce     json
// @Success     200 {array}  CategorySummary
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /v1/summary/categories [get]
func (h *APIHandler) CategorySummary(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.expenseService.CategoryTotals(user.ID, services.ExpenseFilter{})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, labelCategories(totals))
}
