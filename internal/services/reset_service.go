package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// resetTTL is how long a reset attempt stays usable after its code is issued.
const resetTTL = 5 * time.Minute

// resetService drives the OTP/password-reset state machine. Each username
// has at most one pending attempt, persisted as a password_resets row:
// issuing a code overwrites any earlier attempt, verifying the code consumes
// it exactly once, claiming the reset session consumes the verification
// exactly once, and changing the password consumes the whole attempt.
type resetService struct {
	db          *gorm.DB
	userService UserServicer
}

// NewResetService creates a new ResetServicer.
func NewResetService(db *gorm.DB, userService UserServicer) ResetServicer {
	return &resetService{db: db, userService: userService}
}

// GenerateOTP issues a fresh 6-digit code for the named user, replacing any
// pending attempt and restarting the expiry clock. The code is returned so
// the caller can deliver it.
func (s *resetService) GenerateOTP(username string) (string, error) {
	if username == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "username is required")
	}

	code, err := randomCode()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	reset, err := s.find(username)
	switch {
	case err == nil:
		reset.Code = &code
		reset.Verified = false
		reset.AccessGranted = false
		reset.ExpiresAt = time.Now().Add(resetTTL)
		if err := s.db.Save(reset).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		reset = &models.PasswordReset{
			Username:  username,
			Code:      &code,
			ExpiresAt: time.Now().Add(resetTTL),
		}
		if err := s.db.Create(reset).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	default:
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return code, nil
}

// VerifyOTP checks a submitted code against the pending one. The comparison
// is numeric, so leading zeros are insignificant on both sides. A match
// consumes the code; a mismatch leaves the pending code intact.
func (s *resetService) VerifyOTP(username, submittedCode string) error {
	reset, err := s.pending(username)
	if err != nil {
		return err
	}
	if reset.Code == nil {
		return apperrors.ErrSessionExpired
	}

	submitted, err := strconv.Atoi(submittedCode)
	if err != nil {
		return apperrors.ErrInvalidOTP
	}
	pending, err := strconv.Atoi(*reset.Code)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if submitted != pending {
		return apperrors.ErrInvalidOTP
	}

	if err := s.db.Model(reset).Updates(map[string]interface{}{
		"code":     nil,
		"verified": true,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateResetSession claims the authorization produced by a verified code.
// It succeeds exactly once per verification; a second call fails with a
// session-expired error.
func (s *resetService) CreateResetSession(username string) error {
	reset, err := s.pending(username)
	if err != nil {
		return err
	}
	if !reset.Verified || reset.AccessGranted {
		return apperrors.ErrSessionExpired
	}

	if err := s.db.Model(reset).Update("access_granted", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ConsumeForReset changes the user's password, provided the reset session
// was claimed. The attempt is deleted afterwards, returning the user to the
// idle state.
func (s *resetService) ConsumeForReset(username, newPassword string) error {
	reset, err := s.pending(username)
	if err != nil {
		return err
	}
	if !reset.AccessGranted {
		return apperrors.ErrSessionExpired
	}

	if err := s.userService.UpdatePassword(username, newPassword); err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(reset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// find loads the reset row for a username, expired or not.
func (s *resetService) find(username string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := s.db.Where("username = ?", username).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// pending loads the reset row for a username, mapping absence and expiry to
// a session-expired error.
func (s *resetService) pending(username string) (*models.PasswordReset, error) {
	reset, err := s.find(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if reset.Expired(time.Now()) {
		return nil, apperrors.ErrSessionExpired
	}
	return reset, nil
}

// randomCode produces a uniformly random 6-digit numeric code. Codes may
// carry leading zeros; verification compares numerically.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
