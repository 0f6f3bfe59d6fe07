package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/admin"
	"expensetracker/internal/models"
	"expensetracker/internal/testutil"
)

func setupAdminRouter(t *testing.T) (*gin.Engine, *models.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	adminUser := testutil.CreateTestAdmin(t, db)
	testutil.CreateTestExpense(t, db, adminUser.ID, 1234, models.CategoryHealth, "2024-01-05")

	h := NewAdminHandler(admin.NewRegistry(db, admin.DefaultEntities()...))
	r := newTestRouter()
	r.Use(injectUser(adminUser))
	r.GET("/admin", h.Index)
	r.GET("/admin/:entity", h.List)
	return r, adminUser
}

func TestAdminHandler_Index(t *testing.T) {
	r, _ := setupAdminRouter(t)

	rec := doRequest(r, http.MethodGet, "/admin", "")
	assertStatus(t, rec, http.StatusOK)
	assertBodyContains(t, rec, `href="/admin/users"`)
	assertBodyContains(t, rec, `href="/admin/expenses"`)
}

func TestAdminHandler_List(t *testing.T) {
	r, adminUser := setupAdminRouter(t)

	rec := doRequest(r, http.MethodGet, "/admin/expenses", "")
	assertStatus(t, rec, http.StatusOK)
	assertBodyContains(t, rec, "12.34")
	assertBodyContains(t, rec, "Health")

	rec = doRequest(r, http.MethodGet, "/admin/users?page=1", "")
	assertStatus(t, rec, http.StatusOK)
	assertBodyContains(t, rec, adminUser.Username)
}

func TestAdminHandler_UnknownEntity(t *testing.T) {
	r, _ := setupAdminRouter(t)

	rec := doRequest(r, http.MethodGet, "/admin/secrets", "")
	assertStatus(t, rec, http.StatusNotFound)
}
