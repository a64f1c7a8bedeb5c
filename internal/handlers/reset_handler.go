package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/services"
)

// ResetHandler handles the OTP/password-reset flow
type ResetHandler struct {
	resetService services.ResetServicer
}

// NewResetHandler creates a new ResetHandler
func NewResetHandler(resetService services.ResetServicer) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

// ResetPasswordRequest represents the reset-password request payload
type ResetPasswordRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// GenerateOTP issues a one-time code for the named user.
// @Summary     Generate a password-reset OTP
// @Tags        reset
// @Produce     json
// @Param       username query string true "Username"
// @Success     201 {object} map[string]string "Code issued"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /generateOTP [get]
func (h *ResetHandler) GenerateOTP(c *gin.Context) {
	code, err := h.resetService.GenerateOTP(c.Query("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"code": code})
}

// VerifyOTP checks a submitted code against the pending one.
// @Summary     Verify a password-reset OTP
// @Tags        reset
// @Produce     json
// @Param       username query string true "Username"
// @Param       code query string true "Submitted code"
// @Success     201 {object} map[string]string "Code verified"
// @Failure     400 {object} ErrorResponse "Invalid OTP"
// @Failure     440 {object} ErrorResponse "No pending code"
// @Router      /verifyOTP [get]
func (h *ResetHandler) VerifyOTP(c *gin.Context) {
	if err := h.resetService.VerifyOTP(c.Query("username"), c.Query("code")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Verify Successfully"})
}

// CreateResetSession claims the reset authorization after OTP verification.
// @Summary     Claim the password-reset session
// @Tags        reset
// @Produce     json
// @Param       username query string true "Username"
// @Success     201 {object} map[string]string "Access granted"
// @Failure     440 {object} ErrorResponse "Session expired"
// @Router      /createResetSession [get]
func (h *ResetHandler) CreateResetSession(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Username is required"))
		return
	}

	if err := h.resetService.CreateResetSession(username); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Access granted"})
}

// ResetPassword consumes the claimed reset session and changes the password.
// @Summary     Reset password
// @Tags        reset
// @Accept      json
// @Produce     json
// @Param       request body ResetPasswordRequest true "New credentials"
// @Success     201 {object} map[string]string "Password updated"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     440 {object} ErrorResponse "Session expired"
// @Router      /resetPassword [put]
func (h *ResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.resetService.ConsumeForReset(req.Username, req.Password); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Password updated successfully"})
}
