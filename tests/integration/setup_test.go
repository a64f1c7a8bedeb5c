package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"spendwise/internal/handlers"
	"spendwise/internal/logger"
	"spendwise/internal/middleware"
	"spendwise/internal/models"
	"spendwise/internal/services"
	"spendwise/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Mailer *captureMailer
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// captureMailer records outgoing mail instead of dialing an SMTP server.
type captureMailer struct {
	sent []sentMail
}

type sentMail struct {
	To       string
	Username string
	Subject  string
	Text     string
}

func (m *captureMailer) SendWelcome(to, username, subject, text string) error {
	m.sent = append(m.sent, sentMail{To: to, Username: username, Subject: subject, Text: text})
	return nil
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Transaction{},
		&models.PasswordReset{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	resetService := services.NewResetService(db, userService)
	mailer := &captureMailer{}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, mailer)
	userHandler := handlers.NewUserHandler(userService)
	resetHandler := handlers.NewResetHandler(resetService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	verifyUser := middleware.VerifyUser(userService)

	router.POST("/register", authHandler.Register)
	router.POST("/registerMail", authHandler.RegisterMail)
	router.POST("/authentication", verifyUser, authHandler.Authenticate)
	router.POST("/login", verifyUser, authHandler.Login)

	router.GET("/user/:username", userHandler.GetUser)
	router.PUT("/updateuser", middleware.AuthMiddleware(), userHandler.UpdateUser)

	router.GET("/generateOTP", verifyUser, resetHandler.GenerateOTP)
	router.GET("/verifyOTP", verifyUser, resetHandler.VerifyOTP)
	router.GET("/createResetSession", resetHandler.CreateResetSession)
	router.PUT("/resetPassword", verifyUser, resetHandler.ResetPassword)

	router.POST("/add-transaction", transactionHandler.AddTransaction)
	router.POST("/edit-transaction", transactionHandler.EditTransaction)
	router.POST("/delete-transaction", transactionHandler.DeleteTransaction)
	router.POST("/get-all-transaction", transactionHandler.GetAllTransactions)

	return &testApp{DB: db, Mailer: mailer, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
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

// errorCode extracts the error code from an error response envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got: %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user with the given credentials.
func (app *testApp) registerUser(t *testing.T, username, email, password string) {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request("POST", "/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
}

// loginUser logs in and returns the session token.
func (app *testApp) loginUser(t *testing.T, username, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	rec := app.request("POST", "/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	token, _ := result["token"].(string)
	if token == "" {
		t.Fatalf("login returned no token: %s", rec.Body.String())
	}
	return token
}
