package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expensetracker/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    username + "@test.com",
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates a user allowed into the administration pages.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUserWithUsername(t, db, fmt.Sprintf("admin%d", nextID()))
	if err := db.Model(user).Update("is_admin", true).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	user.IsAdmin = true
	return user
}

// CreateTestExpense creates an expense of the given amount (in cents),
// category and day (YYYY-MM-DD).
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, amount int64, category models.Category, day string) *models.Expense {
	t.Helper()

	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", day, err)
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Date:        date,
		Description: fmt.Sprintf("Test expense %d", nextID()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
