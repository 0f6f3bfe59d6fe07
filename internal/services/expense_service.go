package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense records a new expense owned by userID
func (s *expenseService) CreateExpense(
	userID string,
	amount int64,
	category models.Category,
	date time.Time,
	description string,
) (*models.Expense, error) {
	if err := validateExpense(amount, category); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Date:        normalizeDate(date),
		Description: description,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user. Expenses
// owned by someone else are reported as not found.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense overwrites the editable fields of an owned expense
func (s *expenseService) UpdateExpense(
	userID string,
	expenseID string,
	amount int64,
	category models.Category,
	date time.Time,
	description string,
) (*models.Expense, error) {
	if err := validateExpense(amount, category); err != nil {
		return nil, err
	}

	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if !date.IsZero() {
		expense.Date = normalizeDate(date)
	}
	expense.Amount = amount
	expense.Category = category
	expense.Description = description

	// Select lists the columns explicitly so an emptied description is saved.
	if err := s.db.Model(expense).
		Select("amount", "category", "date", "description").
		Updates(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense removes an owned expense
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListExpenses returns every matching expense of the user, newest first.
func (s *expenseService) ListExpenses(userID string, filter ExpenseFilter) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.scoped(userID, filter).
		Order("date DESC").Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// ListExpensesPage returns one page of matching expenses, newest first.
func (s *expenseService) ListExpensesPage(userID string, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	var totalItems int64
	if err := s.scoped(userID, filter).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := s.scoped(userID, filter).
		Order("date DESC").Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RecentExpenses returns the user's latest expenses.
func (s *expenseService) RecentExpenses(userID string, limit int) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.scoped(userID, ExpenseFilter{}).
		Order("date DESC").Order("created_at DESC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// TotalAmount sums the amounts of the matching expenses.
func (s *expenseService) TotalAmount(userID string, filter ExpenseFilter) (int64, error) {
	var total int64
	if err := s.scoped(userID, filter).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// MonthlyTotals groups the user's expenses by calendar month and sums them,
// most recent month first.
func (s *expenseService) MonthlyTotals(userID string) ([]MonthlyTotal, error) {
	month := monthExpression(s.db.Dialector.Name())

	var totals []MonthlyTotal
	if err := s.scoped(userID, ExpenseFilter{}).
		Select(month + " AS month, SUM(amount) AS total, COUNT(*) AS count").
		Group(month).
		Order("month DESC").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}

// CategoryTotals sums the matching expenses per category, largest first.
func (s *expenseService) CategoryTotals(userID string, filter ExpenseFilter) ([]CategoryTotal, error) {
	var totals []CategoryTotal
	if err := s.scoped(userID, filter).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Group("category").
		Order("total DESC").Order("category").
		Scan(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}

func (s *expenseService) scoped(userID string, filter ExpenseFilter) *gorm.DB {
	q := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	return applyExpenseFilters(q, filter)
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", normalizeDate(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date < ?", normalizeDate(*f.ToDate).AddDate(0, 0, 1))
	}
	return q
}

// monthExpression truncates the date column to YYYY-MM for the given dialect.
// Dates are stored as UTC midnight, so postgres must truncate in UTC rather
// than in the session time zone.
func monthExpression(dialect string) string {
	if dialect == "postgres" {
		return "to_char(date_trunc('month', date AT TIME ZONE 'UTC'), 'YYYY-MM')"
	}
	// SQLite stores timestamps as ISO-8601 text.
	return "substr(date, 1, 7)"
}

// normalizeDate drops the time of day; expenses are dated, not timed.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateExpense(amount int64, category models.Category) error {
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !category.IsValid() {
		return apperrors.ErrInvalidCategory
	}
	return nil
}
