package model

import (
	"time"
)

type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	DisplayName  *string   `db:"display_name" json:"displayName,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreditsMilli int64     `db:"credits_milli" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateAccountParams struct {
	ID           string
	Email        string
	DisplayName  *string
	PasswordHash string
	CreditsMilli int64
}
