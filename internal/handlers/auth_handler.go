package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/middleware"
	"spendwise/internal/services"
)

// AuthHandler handles registration and authentication requests
type AuthHandler struct {
	userService services.UserServicer
	mailService services.MailServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, mailService services.MailServicer) *AuthHandler {
	return &AuthHandler{userService: userService, mailService: mailService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Profile  string `json:"profile" binding:"max=255"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response with token
type LoginResponse struct {
	Msg      string `json:"msg"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// RegisterMailRequest represents the registration mail request payload
type RegisterMailRequest struct {
	Username  string `json:"username" binding:"required"`
	UserEmail string `json:"userEmail" binding:"required,email"`
	Subject   string `json:"subject"`
	Text      string `json:"text"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with a unique username and email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} map[string]string "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate username/email"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Email, req.Password, req.Profile)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("user registered", "username", user.Username)
	c.JSON(http.StatusCreated, gin.H{"msg": "User registered successfully"})
}

// Authenticate probes that the named user exists.
// The existence check itself lives in the VerifyUser middleware; by the
// time this handler runs the probe has already passed.
// @Summary     Probe user existence
// @Tags        auth
// @Accept      json
// @Produce     json
// @Success     200 "User exists"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /authentication [post]
func (h *AuthHandler) Authenticate(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and issue a session token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} LoginResponse "Token issued"
// @Failure     400 {object} ErrorResponse "Password mismatch"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetUserByUsername(req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !h.userService.VerifyPassword(user, req.Password) {
		respondWithError(c, apperrors.ErrPasswordMismatch)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Msg:      "Login Successful",
		Username: user.Username,
		Token:    token,
	})
}

// RegisterMail sends the registration welcome mail to a user.
// @Summary     Send registration mail
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterMailRequest true "Mail data"
// @Success     200 {object} map[string]string "Mail sent"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Delivery failure"
// @Router      /registerMail [post]
func (h *AuthHandler) RegisterMail(c *gin.Context) {
	var req RegisterMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.mailService.SendWelcome(req.UserEmail, req.Username, req.Subject, req.Text); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "You should receive an email from us"})
}
