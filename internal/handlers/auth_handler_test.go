package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/middleware"
	"spendwise/internal/models"
	"spendwise/internal/services"
	"spendwise/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn        func(username, email, password, profile string) (*models.User, error)
	getUserByUsernameFn func(username string) (*models.User, error)
	getUserByIDFn       func(id string) (*models.User, error)
	verifyPasswordFn    func(user *models.User, password string) bool
	updateUserFn        func(id string, update services.UserUpdate) (*models.User, error)
	updatePasswordFn    func(username, newPassword string) error
}

func (m *mockUserService) CreateUser(username, email, password, profile string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(username, email, password, profile)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByUsername(username string) (*models.User, error) {
	if m.getUserByUsernameFn != nil {
		return m.getUserByUsernameFn(username)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	if m.verifyPasswordFn != nil {
		return m.verifyPasswordFn(user, password)
	}
	return true
}

func (m *mockUserService) UpdateUser(id string, update services.UserUpdate) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(id, update)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdatePassword(username, newPassword string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(username, newPassword)
	}
	return nil
}

type mockMailService struct {
	sendWelcomeFn func(to, username, subject, text string) error
}

func (m *mockMailService) SendWelcome(to, username, subject, text string) error {
	if m.sendWelcomeFn != nil {
		return m.sendWelcomeFn(to, username, subject, text)
	}
	return nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler, userHandler *UserHandler) *gin.Engine {
	r := gin.New()
	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)
	r.POST("/registerMail", handler.RegisterMail)
	r.GET("/user/:username", userHandler.GetUser)
	r.PUT("/updateuser", injectUserID("user-1"), userHandler.UpdateUser)
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uid)
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

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseJSON(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// --- tests ---

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := &mockUserService{
			createUserFn: func(username, email, password, profile string) (*models.User, error) {
				return &models.User{Username: username, Email: email}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/register", `{"username":"alice","email":"alice@x.com","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		users := &mockUserService{
			createUserFn: func(username, email, password, profile string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUsername
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/register", `{"username":"alice","email":"other@x.com","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "DUPLICATE_USERNAME" {
			t.Errorf("expected DUPLICATE_USERNAME, got %s", code)
		}
	})

	t.Run("invalid_body", func(t *testing.T) {
		users := &mockUserService{}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/register", `{"username":"alice"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("success_returns_token", func(t *testing.T) {
		users := &mockUserService{
			getUserByUsernameFn: func(username string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: "user-1"}, Username: username}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/login", `{"username":"alice","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := parseJSON(t, rec)
		if body["token"] == "" || body["token"] == nil {
			t.Error("expected token in response")
		}
		if body["username"] != "alice" {
			t.Errorf("expected username alice, got %v", body["username"])
		}
	})

	t.Run("password_mismatch", func(t *testing.T) {
		users := &mockUserService{
			verifyPasswordFn: func(user *models.User, password string) bool { return false },
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "PASSWORD_MISMATCH" {
			t.Errorf("expected PASSWORD_MISMATCH, got %s", code)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		users := &mockUserService{
			getUserByUsernameFn: func(username string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/login", `{"username":"ghost","password":"password123"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestGetUser(t *testing.T) {
	t.Run("strips_password", func(t *testing.T) {
		users := &mockUserService{
			getUserByUsernameFn: func(username string) (*models.User, error) {
				return &models.User{Username: username, Email: "alice@x.com", Password: "secret-hash"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodGet, "/user/alice", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "secret-hash") {
			t.Error("response must not contain the password hash")
		}
		body := parseJSON(t, rec)
		if _, present := body["password"]; present {
			t.Error("response must not contain a password field")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		users := &mockUserService{
			getUserByUsernameFn: func(username string) (*models.User, error) {
				return nil, apperrors.ErrUserNotFound
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodGet, "/user/ghost", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("applies_partial_update", func(t *testing.T) {
		var gotID string
		var gotUpdate services.UserUpdate
		users := &mockUserService{
			updateUserFn: func(id string, update services.UserUpdate) (*models.User, error) {
				gotID = id
				gotUpdate = update
				return &models.User{Profile: *update.Profile}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPut, "/updateuser", `{"profile":"new bio"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != "user-1" {
			t.Errorf("expected update for user-1, got %s", gotID)
		}
		if gotUpdate.Profile == nil || *gotUpdate.Profile != "new bio" {
			t.Error("expected profile field in update")
		}
		if gotUpdate.Username != nil || gotUpdate.Email != nil || gotUpdate.Password != nil {
			t.Error("expected absent fields to stay nil")
		}
	})

	t.Run("empty_body", func(t *testing.T) {
		users := &mockUserService{
			updateUserFn: func(id string, update services.UserUpdate) (*models.User, error) {
				return nil, apperrors.ErrNoUpdateData
			},
		}
		r := setupAuthRouter(NewAuthHandler(users, &mockMailService{}), NewUserHandler(users))

		rec := doRequest(r, http.MethodPut, "/updateuser", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "NO_UPDATE_DATA" {
			t.Errorf("expected NO_UPDATE_DATA, got %s", code)
		}
	})

	t.Run("missing_identity", func(t *testing.T) {
		users := &mockUserService{}
		handler := NewUserHandler(users)
		r := gin.New()
		r.PUT("/updateuser", handler.UpdateUser)

		rec := doRequest(r, http.MethodPut, "/updateuser", `{"profile":"x"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestRegisterMail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotTo string
		mail := &mockMailService{
			sendWelcomeFn: func(to, username, subject, text string) error {
				gotTo = to
				return nil
			},
		}
		users := &mockUserService{}
		r := setupAuthRouter(NewAuthHandler(users, mail), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/registerMail", `{"username":"alice","userEmail":"alice@x.com"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotTo != "alice@x.com" {
			t.Errorf("expected mail to alice@x.com, got %s", gotTo)
		}
	})

	t.Run("delivery_failure_is_opaque", func(t *testing.T) {
		mail := &mockMailService{
			sendWelcomeFn: func(to, username, subject, text string) error {
				return apperrors.Wrap(apperrors.ErrInternalServer, http.ErrServerClosed)
			},
		}
		users := &mockUserService{}
		r := setupAuthRouter(NewAuthHandler(users, mail), NewUserHandler(users))

		rec := doRequest(r, http.MethodPost, "/registerMail", `{"username":"alice","userEmail":"alice@x.com"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "Server closed") {
			t.Error("internal error detail must not leak to the client")
		}
	})
}
