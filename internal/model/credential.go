package model

import (
	"strconv"
	"time"
)

// Credential is the bearer token plus identity claims returned by the
// platform backend after a successful admin login. The fields are only
// meaningful as a unit; a Credential is never persisted partially.
type Credential struct {
	Token    string `json:"token"`
	Verified bool   `json:"verified"`
	Email    string `json:"email"`
	ID       string `json:"id"`
}

// VerifiedString returns the stringified verified flag used inside the
// signed session cookie and the local store entries.
func (c Credential) VerifiedString() string {
	return strconv.FormatBool(c.Verified)
}

type RevokedSession struct {
	ID        string    `db:"id" json:"id"`
	TokenID   string    `db:"token_id" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateRevokedSessionParams struct {
	TokenID   string
	ExpiresAt time.Time
}
