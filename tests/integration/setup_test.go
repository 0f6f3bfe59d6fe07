package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expensetracker/internal/config"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/notify"
	"expensetracker/internal/server"
	"expensetracker/internal/testutil"
	"expensetracker/internal/validator"
)

const baseURL = "http://expenses.test"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Notifier *capturingNotifier
}

// capturingNotifier records the password reset messages it is asked to send.
type capturingNotifier struct {
	mu   sync.Mutex
	sent []*notify.PasswordReset
}

func (n *capturingNotifier) SendPasswordReset(_ context.Context, msg *notify.PasswordReset) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *capturingNotifier) last(t *testing.T) *notify.PasswordReset {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		t.Fatal("expected a password reset notification")
	}
	return n.sent[len(n.sent)-1]
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates the full router backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		Env:                 "test",
		BaseURL:             baseURL,
		SessionSecret:       "integration-secret",
		SessionDuration:     time.Hour,
		ResetTokenDuration:  time.Hour,
		ShowResetLinkInPage: true,
	}
	notifier := &capturingNotifier{}

	router, err := server.NewRouter(server.Deps{Config: cfg, DB: db, Notifier: notifier})
	if err != nil {
		t.Fatalf("failed to build router: %v", err)
	}
	return &testApp{DB: db, Router: router, Notifier: notifier}
}

// client is a browser-like session that keeps cookies between requests.
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (app *testApp) newClient() *client {
	return &client{app: app, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.app.Router.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) signedIn() bool {
	_, ok := c.cookies["session"]
	return ok
}

// register creates an account through the registration form and keeps the
// resulting session.
func (c *client) register(t *testing.T, username, password string) {
	t.Helper()
	rec := c.post("/register", url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {password},
		"confirm_password": {password},
	})
	expectRedirect(t, rec, "/dashboard")
	if !c.signedIn() {
		t.Fatal("expected a session after registration")
	}
}

func (c *client) login(username, password string) *httptest.ResponseRecorder {
	return c.post("/login", url.Values{"username": {username}, "password": {password}})
}

func (c *client) addExpense(t *testing.T, amount, category, date string) {
	t.Helper()
	rec := c.post("/expense/add", url.Values{
		"amount":      {amount},
		"category":    {category},
		"date":        {date},
		"description": {category + " on " + date},
	})
	expectRedirect(t, rec, "/expense/view")
}

// userExpenses loads a user's expenses straight from the database.
func (app *testApp) userExpenses(t *testing.T, username string) []models.Expense {
	t.Helper()
	var user models.User
	if err := app.DB.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("load user %s: %v", username, err)
	}
	var expenses []models.Expense
	if err := app.DB.Where("user_id = ?", user.ID).Order("date DESC").Find(&expenses).Error; err != nil {
		t.Fatalf("load expenses: %v", err)
	}
	return expenses
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	expectStatus(t, rec, http.StatusFound)
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func expectBody(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("expected body to contain %q\nbody: %s", want, rec.Body.String())
	}
}
