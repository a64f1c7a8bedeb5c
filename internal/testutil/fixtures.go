package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendwise/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique
// username/email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserNamed(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserNamed creates a user with the given username and email.
// The password is always "password123".
func CreateTestUserNamed(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction of the given type, amount, and date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   userID,
		Amount:   amount,
		Type:     txType,
		Category: fmt.Sprintf("Test Category %d", nextID()),
		Date:     date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestReset creates a password reset row in an arbitrary stage.
func CreateTestReset(t *testing.T, db *gorm.DB, username string, code *string, verified, granted bool, expiresAt time.Time) *models.PasswordReset {
	t.Helper()

	reset := &models.PasswordReset{
		Username:      username,
		Code:          code,
		Verified:      verified,
		AccessGranted: granted,
		ExpiresAt:     expiresAt,
	}
	if err := db.Create(reset).Error; err != nil {
		t.Fatalf("failed to create test password reset: %v", err)
	}
	return reset
}
