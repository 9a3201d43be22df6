package admin

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Admin is an entry in the admin registry. The registry decides who may enter
// the portal; the hosted auth service owns the actual credentials.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	IsActive     *bool     `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

// SetPassword hashes and sets a local password. Only the DEV/TEST
// authenticator and the bootstrap CLI ever read it back.
func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a *Admin) SetActive(active bool) {
	a.IsActive = &active
}

// GetFilter narrows down a single-Admin lookup. Fields are tried in order;
// the first non-empty one wins.
type GetFilter struct {
	ID    string
	Email string
}
