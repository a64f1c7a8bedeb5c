package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/services"
)

// UserHandler handles user profile requests
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest represents a partial user update. Absent fields are
// left untouched.
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8,max=128"`
	Profile  *string `json:"profile" binding:"omitempty,max=255"`
}

// GetUser returns a user's profile by username, without the password field.
// @Summary     Get user profile
// @Tags        user
// @Produce     json
// @Param       username path string true "Username"
// @Success     200 {object} models.User "User profile"
// @Failure     400 {object} ErrorResponse "Missing username"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /user/{username} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Username is required"))
		return
	}

	user, err := h.userService.GetUserByUsername(username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// models.User never serializes the password hash.
	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to the authenticated user.
// @Summary     Update user profile
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated user"
// @Failure     400 {object} ErrorResponse "Empty update body"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /updateuser [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(userID, services.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.Profile,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":  "Record Updated",
		"user": user,
	})
}
