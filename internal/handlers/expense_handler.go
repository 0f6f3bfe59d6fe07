package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/money"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
)

const dateLayout = "2006-01-02"

// Flash messages shown after expense changes.
const (
	flashExpenseAdded   = "Expense added successfully."
	flashExpenseUpdated = "Expense updated successfully."
	flashExpenseDeleted = "Expense deleted successfully."
)

// ExpenseHandler handles the expense pages
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
	cookies        CookieConfig
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer, cookies CookieConfig) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService, cookies: cookies}
}

// ExpenseForm is the add/edit expense form. Values stay strings so an
// invalid submission can be shown back to the user unchanged.
type ExpenseForm struct {
	Amount      string `form:"amount" binding:"required,money"`
	Category    string `form:"category" binding:"required,expense_category"`
	Date        string `form:"date" binding:"required,datetime=2006-01-02"`
	Description string `form:"description" binding:"max=500"`
}

// FilterForm narrows the expense list
type FilterForm struct {
	Category string `form:"category"`
}

func newExpenseForm(e *models.Expense) ExpenseForm {
	return ExpenseForm{
		Amount:      money.Format(e.Amount),
		Category:    string(e.Category),
		Date:        e.Date.Format(dateLayout),
		Description: e.Description,
	}
}

// values converts a bound form into typed expense fields.
func (f ExpenseForm) values() (int64, models.Category, time.Time, error) {
	amount, err := money.ParseCents(f.Amount)
	if err != nil {
		return 0, "", time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Enter a valid amount greater than zero.")
	}
	date, err := time.Parse(dateLayout, f.Date)
	if err != nil {
		return 0, "", time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Enter a valid date.")
	}
	return amount, models.Category(f.Category), date, nil
}

func expenseFormData(title, action string, form ExpenseForm) gin.H {
	return gin.H{"Title": title, "Action": action, "Form": form}
}

// AddPage renders an empty expense form dated today
func (h *ExpenseHandler) AddPage(c *gin.Context) {
	form := ExpenseForm{Date: time.Now().Format(dateLayout)}
	render(c, http.StatusOK, "expense_form.html", expenseFormData("Add expense", "/expense/add", form))
}

// Add records a new expense for the current user
func (h *ExpenseHandler) Add(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	var form ExpenseForm
	if err := c.ShouldBind(&form); err != nil {
		data := expenseFormData("Add expense", "/expense/add", form)
		data["Error"] = validator.Describe(err)
		render(c, http.StatusBadRequest, "expense_form.html", data)
		return
	}

	amount, category, date, err := form.values()
	if err != nil {
		renderForm(c, "expense_form.html", err, expenseFormData("Add expense", "/expense/add", form))
		return
	}

	expense, err := h.expenseService.CreateExpense(user.ID, amount, category, date, form.Description)
	if err != nil {
		renderForm(c, "expense_form.html", err, expenseFormData("Add expense", "/expense/add", form))
		return
	}

	h.auditService.Log(user.ID, services.AuditCreateExpense, "expense", expense.ID, c.ClientIP(), map[string]interface{}{
		"amount":   expense.Amount,
		"category": expense.Category,
		"date":     expense.Date.Format(dateLayout),
	})
	h.cookies.setFlash(c, flashExpenseAdded)
	c.Redirect(http.StatusFound, "/expense/view")
}

// EditPage renders the form pre-filled with an owned expense
func (h *ExpenseHandler) EditPage(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	action := "/expense/edit/" + expense.ID
	render(c, http.StatusOK, "expense_form.html", expenseFormData("Edit expense", action, newExpenseForm(expense)))
}

// Edit saves changes to an owned expense
func (h *ExpenseHandler) Edit(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	action := "/expense/edit/" + expense.ID

	var form ExpenseForm
	if err := c.ShouldBind(&form); err != nil {
		data := expenseFormData("Edit expense", action, form)
		data["Error"] = validator.Describe(err)
		render(c, http.StatusBadRequest, "expense_form.html", data)
		return
	}

	amount, category, date, err := form.values()
	if err != nil {
		renderForm(c, "expense_form.html", err, expenseFormData("Edit expense", action, form))
		return
	}

	updated, err := h.expenseService.UpdateExpense(expense.UserID, expense.ID, amount, category, date, form.Description)
	if err != nil {
		renderForm(c, "expense_form.html", err, expenseFormData("Edit expense", action, form))
		return
	}

	h.auditService.Log(updated.UserID, services.AuditUpdateExpense, "expense", updated.ID, c.ClientIP(), map[string]interface{}{
		"old_amount": expense.Amount,
		"amount":     updated.Amount,
		"category":   updated.Category,
		"date":       updated.Date.Format(dateLayout),
	})
	h.cookies.setFlash(c, flashExpenseUpdated)
	c.Redirect(http.StatusFound, "/expense/view")
}

// DeletePage asks for confirmation before deleting an owned expense
func (h *ExpenseHandler) DeletePage(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "confirm_delete.html", gin.H{"Title": "Delete expense", "Expense": expense})
}

// Delete removes an owned expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(expense.UserID, expense.ID); err != nil {
		fail(c, err)
		return
	}

	h.auditService.Log(expense.UserID, services.AuditDeleteExpense, "expense", expense.ID, c.ClientIP(), map[string]interface{}{
		"amount":   expense.Amount,
		"category": expense.Category,
	})
	h.cookies.setFlash(c, flashExpenseDeleted)
	c.Redirect(http.StatusFound, "/expense/view")
}

// View lists all of the current user's expenses, newest first, with their total
func (h *ExpenseHandler) View(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	expenses, err := h.expenseService.ListExpenses(user.ID, services.ExpenseFilter{})
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "view_expense.html", gin.H{
		"Title":    "Your expenses",
		"Expenses": expenses,
		"Total":    sumAmounts(expenses),
	})
}

// Filter lists the current user's expenses in one category. Unknown
// categories are ignored and the full list is shown.
func (h *ExpenseHandler) Filter(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	var form FilterForm
	_ = c.ShouldBindQuery(&form)

	var filter services.ExpenseFilter
	if category := models.Category(form.Category); category.IsValid() {
		filter.Category = &category
	} else {
		form.Category = ""
	}

	expenses, err := h.expenseService.ListExpenses(user.ID, filter)
	if err != nil {
		fail(c, err)
		return
	}

	render(c, http.StatusOK, "filter_expense.html", gin.H{
		"Title":    "Filter expenses",
		"Form":     form,
		"Expenses": expenses,
		"Total":    sumAmounts(expenses),
	})
}

// ownedExpense loads the :id expense of the current user, rendering the
// error page when it does not exist or belongs to someone else.
func (h *ExpenseHandler) ownedExpense(c *gin.Context) (*models.Expense, bool) {
	user, err := currentUser(c)
	if err != nil {
		fail(c, err)
		return nil, false
	}

	id, err := parseExpenseID(c)
	if err != nil {
		fail(c, err)
		return nil, false
	}

	expense, err := h.expenseService.GetExpenseByID(user.ID, id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return expense, true
}

func sumAmounts(expenses []models.Expense) int64 {
	amounts := make([]int64, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return money.Sum(amounts...)
}
