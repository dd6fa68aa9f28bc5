// Package models defines data structures for Vortex
package models

import "time"

// Account represents a credentialed identity stored in vortex-server.
// The storage codec reads the json tags, so the hash keeps one; API
// responses never serialize Account directly.
type Account struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// UserProfile is the public profile document provisioned once at
// registration. The verification status is informational only and stays
// at "new"; no verification workflow mutates it.
type UserProfile struct {
	UserID             string `json:"user_id"`
	Email              string `json:"email"`
	RegistrationDate   string `json:"registration_date"` // RFC 3339
	VerificationStatus string `json:"verification_status"`
}

// VerificationStatusNew is the status assigned to every new profile.
const VerificationStatusNew = "new"

// NewUserProfile creates the profile document for a freshly registered user.
func NewUserProfile(userID, email string, registeredAt time.Time) *UserProfile {
	return &UserProfile{
		UserID:             userID,
		Email:              email,
		RegistrationDate:   registeredAt.UTC().Format(time.RFC3339),
		VerificationStatus: VerificationStatusNew,
	}
}

// SessionEvent is published on the session watch stream whenever an
// identity signs in or out.
type SessionEvent struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	SignedIn bool   `json:"signed_in"`
}
