package model

import (
	"time"
)

// RefreshToken is the one canonical rotating token for an account. The token
// value is opaque and system-generated; it is the primary key.
type RefreshToken struct {
	Token     string    `db:"token" json:"-"`
	AccountID string    `db:"account_id" json:"accountId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}

type CreateRefreshTokenParams struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
}
