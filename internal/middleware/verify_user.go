package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/services"
)

// VerifyUser returns a middleware that rejects requests naming a username
// that does not exist. GET requests carry the username in the query string;
// all other methods carry it in the JSON body, which is restored so the
// handler can bind it again.
func VerifyUser(userService services.UserServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := requestUsername(c)
		if err != nil || username == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrInvalidInput.Code,
					"message": "Username is required",
				},
			})
			c.Abort()
			return
		}

		if _, err := userService.GetUserByUsername(username); err != nil {
			c.JSON(apperrors.ErrUserNotFound.StatusCode, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrUserNotFound.Code,
					"message": apperrors.ErrUserNotFound.Message,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// requestUsername extracts the username from the query string on GET
// requests and from the JSON body otherwise.
func requestUsername(c *gin.Context) (string, error) {
	if c.Request.Method == http.MethodGet {
		return c.Query("username"), nil
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	// Put the body back for the handler.
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

	var probe struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	return probe.Username, nil
}
