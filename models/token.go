package models

import "time"

type TokenKind string

const (
	TokenVerifyEmail   TokenKind = "verify_email"
	TokenResetPassword TokenKind = "reset_password"

	VerifyTokenTTL = 24 * time.Hour
	ResetTokenTTL  = 2 * time.Hour
)

// AuthToken is a single-use email verification or password reset token.
type AuthToken struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"index;not null" json:"-"`
	Kind      TokenKind  `gorm:"type:VARCHAR(20);index" json:"kind"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Usable reports whether the token is unused and unexpired at now.
func (t *AuthToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
