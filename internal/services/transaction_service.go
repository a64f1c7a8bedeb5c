package services

import (
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/uuid"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction persists a new transaction record for a user.
func (s *transactionService) CreateTransaction(
	userID string,
	amount float64,
	transactionType models.TransactionType,
	category string,
	date time.Time,
	reference, description string,
) (*models.Transaction, error) {
	if !uuid.IsValid(userID) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a valid user ID is required")
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        transactionType,
		Category:    category,
		Date:        date,
		Reference:   reference,
		Description: description,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// UpdateTransaction applies a partial update to a transaction by ID.
func (s *transactionService) UpdateTransaction(transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	if update.Empty() {
		return nil, apperrors.ErrNoUpdateData
	}

	var transaction models.Transaction
	if err := s.db.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fields := map[string]interface{}{}
	if update.Amount != nil {
		fields["amount"] = *update.Amount
	}
	if update.Type != nil {
		fields["type"] = *update.Type
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}
	if update.Date != nil {
		fields["date"] = *update.Date
	}
	if update.Reference != nil {
		fields["reference"] = *update.Reference
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}

	if err := s.db.Model(&transaction).Updates(fields).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &transaction, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *transactionService) DeleteTransaction(transactionID string) error {
	result := s.db.Where("id = ?", transactionID).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// ListTransactions returns the transactions of a user filtered by a date
// window and optionally by type.
//
// When frequency is not "custom" it must parse as a positive number of days
// N, and the window is "date after now minus N days". When frequency is
// "custom", selectedRange must carry an inclusive [start, end] pair.
// A typeFilter of "all" matches every transaction type.
func (s *transactionService) ListTransactions(
	userID, frequency string,
	selectedRange []time.Time,
	typeFilter string,
) ([]models.Transaction, error) {
	if userID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}

	q := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if frequency == models.FrequencyCustom {
		if len(selectedRange) != 2 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "custom frequency requires a start and end date")
		}
		q = q.Where("date >= ? AND date <= ?", selectedRange[0], selectedRange[1])
	} else {
		days, err := strconv.Atoi(frequency)
		if err != nil || days <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "frequency must be a positive number of days or \"custom\"")
		}
		q = q.Where("date > ?", time.Now().AddDate(0, 0, -days))
	}

	if typeFilter != models.TypeFilterAll {
		q = q.Where("type = ?", typeFilter)
	}

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
