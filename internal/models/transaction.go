package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// FrequencyCustom is the sentinel frequency value that selects an explicit
// date range instead of a relative window when listing transactions.
const FrequencyCustom = "custom"

// TypeFilterAll is the sentinel type filter that matches all transaction types.
const TypeFilterAll = "all"

// Transaction represents a financial transaction in the system
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Category    string          `gorm:"not null" json:"category"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Reference   string          `json:"reference,omitempty"`
	Description string          `json:"description,omitempty"`
}
