package testutil_test

import (
	"testing"

	"expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "expenses", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	if err := second.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected an empty second database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.IsAdmin {
		t.Error("fixture users should not be admins")
	}

	admin := testutil.CreateTestAdmin(t, db)
	if !admin.IsAdmin {
		t.Error("expected admin fixture to be an admin")
	}

	expense := testutil.CreateTestExpense(t, db, user.ID, 1250, models.CategoryFood, "2024-01-05")
	if expense.Amount != 1250 {
		t.Errorf("expected amount 1250, got %d", expense.Amount)
	}
	if expense.Date.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("expected date 2024-01-05, got %s", expense.Date.Format("2006-01-02"))
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrExpenseNotFound, "custom message")
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
