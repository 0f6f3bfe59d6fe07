package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/notify"
	"expensetracker/internal/pagination"
	"expensetracker/internal/services"
	"expensetracker/internal/validator"
	"expensetracker/internal/web"
)

// --- mock services ---

type mockUserService struct {
	createUserFn        func(username, email, password string) (*models.User, error)
	getUserByIDFn       func(id string) (*models.User, error)
	getUserByEmailFn    func(email string) (*models.User, error)
	getUserByUsernameFn func(username string) (*models.User, error)
	verifyPasswordFn    func(user *models.User, password string) bool
	attemptLoginFn      func(username, password string) (*models.User, error)
	setPasswordFn       func(userID, newPassword string) (*models.User, error)
	setAdminFn          func(userID string, isAdmin bool) error
}

var _ services.UserServicer = (*mockUserService)(nil)

func (m *mockUserService) CreateUser(username, email, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(username, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.getUserByUsernameFn != nil {
		return m.getUserByUsernameFn(username)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) AttemptLogin(username, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) SetPassword(userID, newPassword string) (*models.User, error) {
	if m.setPasswordFn != nil {
		return m.setPasswordFn(userID, newPassword)
	}
	return &models.User{}, nil
}

func (m *mockUserService) SetAdmin(userID string, isAdmin bool) error {
	if m.setAdminFn != nil {
		return m.setAdminFn(userID, isAdmin)
	}
	return nil
}

type mockExpenseService struct {
	createExpenseFn    func(userID string, amount int64, category models.Category, date time.Time, description string) (*models.Expense, error)
	getExpenseByIDFn   func(userID, expenseID string) (*models.Expense, error)
	updateExpenseFn    func(userID, expenseID string, amount int64, category models.Category, date time.Time, description string) (*models.Expense, error)
	deleteExpenseFn    func(userID, expenseID string) error
	listExpensesFn     func(userID string, filter services.ExpenseFilter) ([]models.Expense, error)
	listExpensesPageFn func(userID string, filter services.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	recentExpensesFn   func(userID string, limit int) ([]models.Expense, error)
	totalAmountFn      func(userID string, filter services.ExpenseFilter) (int64, error)
	monthlyTotalsFn    func(userID string) ([]services.MonthlyTotal, error)
	categoryTotalsFn   func(userID string, filter services.ExpenseFilter) ([]services.CategoryTotal, error)
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func (m *mockExpenseService) CreateExpense(userID string, amount int64, category models.Category, date time.Time, description string) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, amount, category, date, description)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID string, amount int64, category models.Category, date time.Time, description string) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, amount, category, date, description)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(userID, expenseID string) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) ListExpenses(userID string, filter services.ExpenseFilter) ([]models.Expense, error) {
	if m.listExpensesFn != nil {
		return m.listExpensesFn(userID, filter)
	}
	return nil, nil
}

func (m *mockExpenseService) ListExpensesPage(userID string, filter services.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if m.listExpensesPageFn != nil {
		return m.listExpensesPageFn(userID, filter, page)
	}
	resp := pagination.NewPageResponse[models.Expense](nil, 1, 25, 0)
	return &resp, nil
}

func (m *mockExpenseService) RecentExpenses(userID string, limit int) ([]models.Expense, error) {
	if m.recentExpensesFn != nil {
		return m.recentExpensesFn(userID, limit)
	}
	return nil, nil
}

func (m *mockExpenseService) TotalAmount(userID string, filter services.ExpenseFilter) (int64, error) {
	if m.totalAmountFn != nil {
		return m.totalAmountFn(userID, filter)
	}
	return 0, nil
}

func (m *mockExpenseService) MonthlyTotals(userID string) ([]services.MonthlyTotal, error) {
	if m.monthlyTotalsFn != nil {
		return m.monthlyTotalsFn(userID)
	}
	return nil, nil
}

func (m *mockExpenseService) CategoryTotals(userID string, filter services.ExpenseFilter) ([]services.CategoryTotal, error) {
	if m.categoryTotalsFn != nil {
		return m.categoryTotalsFn(userID, filter)
	}
	return nil, nil
}

type mockAuditService struct {
	actions []string
}

var _ services.AuditServicer = (*mockAuditService)(nil)

func (m *mockAuditService) Log(_, action, _, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

type mockNotifier struct {
	sent []*notify.PasswordReset
	err  error
}

func (m *mockNotifier) SendPasswordReset(_ context.Context, msg *notify.PasswordReset) error {
	m.sent = append(m.sent, msg)
	return m.err
}

// --- test helpers ---

const testExpenseID = "0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

var testCookies = CookieConfig{SessionTTL: time.Hour}

// newTestRouter returns an engine with templates and the error middleware.
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	r.Use(middleware.ErrorHandler())
	return r
}

func testUser() *models.User {
	u := &models.User{Username: "alice", Email: "alice@example.com", IsActive: true}
	u.ID = "0190a1b2-0000-7000-8000-000000000001"
	return u
}

func injectUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func postForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d\nbody: %s", want, rec.Code, rec.Body.String())
	}
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatus(t, rec, http.StatusFound)
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("expected redirect to %q, got %q", location, got)
	}
}

func assertBodyContains(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("expected body to contain %q\nbody: %s", want, rec.Body.String())
	}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// flashValue returns the decoded flash message set by the response.
func flashValue(rec *httptest.ResponseRecorder) string {
	cookie := findCookie(rec, "flash")
	if cookie == nil {
		return ""
	}
	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return cookie.Value
	}
	return value
}
