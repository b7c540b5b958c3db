package domain

// Account is a registered user. The email is the unique account key,
// compared case-insensitively but stored as given at signup.
type Account struct {
	Email        string
	PasswordHash string // bcrypt encoded, never the plaintext
}
