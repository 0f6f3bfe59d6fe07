package services

import (
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	SetPassword(userID, newPassword string) (*models.User, error)
	SetAdmin(userID string, isAdmin bool) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
// Nil fields do not narrow the result.
type ExpenseFilter struct {
	Category *models.Category
	FromDate *time.Time
	ToDate   *time.Time
}

// MonthlyTotal is the sum of a user's expenses within one calendar month.
type MonthlyTotal struct {
	Month string `json:"month"` // YYYY-MM
	Total int64  `json:"total"`
	Count int64  `json:"count"`
}

// CategoryTotal is the sum of a user's expenses within one category.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Total    int64           `json:"total"`
	Count    int64           `json:"count"`
}

// ExpenseServicer defines the contract for expense-related business logic.
// Every method is scoped to the owning user.
type ExpenseServicer interface {
	CreateExpense(userID string, amount int64, category models.Category, date time.Time, description string) (*models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, amount int64, category models.Category, date time.Time, description string) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	ListExpenses(userID string, filter ExpenseFilter) ([]models.Expense, error)
	ListExpensesPage(userID string, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	RecentExpenses(userID string, limit int) ([]models.Expense, error)
	TotalAmount(userID string, filter ExpenseFilter) (int64, error)
	MonthlyTotals(userID string) ([]MonthlyTotal, error)
	CategoryTotals(userID string, filter ExpenseFilter) ([]CategoryTotal, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
