package models

// User represents a registered account.
type User struct {
	ID       int64
	Username string
	Password string // bcrypt hash, never the plaintext
}
