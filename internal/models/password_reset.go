package models

import "time"

// PasswordReset tracks one pending password reset attempt per username.
// The row carries the reset flow through its stages: a pending code
// (code issued), Verified (code consumed), and AccessGranted (reset
// authorization claimed). Rows past ExpiresAt are treated as absent.
type PasswordReset struct {
	Base
	Username      string    `gorm:"uniqueIndex;not null" json:"username"`
	Code          *string   `json:"-"`
	Verified      bool      `gorm:"default:false" json:"verified"`
	AccessGranted bool      `gorm:"default:false" json:"access_granted"`
	ExpiresAt     time.Time `gorm:"not null" json:"expires_at"`
}

// Expired reports whether the reset attempt is past its deadline.
func (p *PasswordReset) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
