package services

import (
	"time"

	"spendwise/internal/models"
)

// UserUpdate holds the optional fields of a partial user update.
// Nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Profile  *string
}

// Empty reports whether the update carries no fields.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil && u.Profile == nil
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password, profile string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpdateUser(id string, update UserUpdate) (*models.User, error)
	UpdatePassword(username, newPassword string) error
}

// TransactionUpdate holds the optional fields of a partial transaction update.
type TransactionUpdate struct {
	Amount      *float64
	Type        *models.TransactionType
	Category    *string
	Date        *time.Time
	Reference   *string
	Description *string
}

// Empty reports whether the update carries no fields.
func (u TransactionUpdate) Empty() bool {
	return u.Amount == nil && u.Type == nil && u.Category == nil &&
		u.Date == nil && u.Reference == nil && u.Description == nil
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, amount float64, transactionType models.TransactionType, category string, date time.Time, reference, description string) (*models.Transaction, error)
	UpdateTransaction(transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
	ListTransactions(userID, frequency string, selectedRange []time.Time, typeFilter string) ([]models.Transaction, error)
}

// ResetServicer defines the contract for the OTP/password-reset flow.
// Each username has at most one pending reset attempt that moves through
// code issued, code verified, and access granted before the password is
// actually changed.
type ResetServicer interface {
	GenerateOTP(username string) (string, error)
	VerifyOTP(username, submittedCode string) error
	CreateResetSession(username string) error
	ConsumeForReset(username, newPassword string) error
}

// MailServicer defines the contract for outbound mail.
type MailServicer interface {
	SendWelcome(to, username, subject, text string) error
}
