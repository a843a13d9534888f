package domain

import "time"

// User models an account that can sign in and operate on tasks.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the view of a user returned on login. The password hash is
// never part of it.
type PublicUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Public strips everything but the fields clients are allowed to see.
func (u *User) Public() PublicUser {
	return PublicUser{Email: u.Email, Name: u.Name}
}

// Claims is the decoded payload of an access token.
type Claims struct {
	Email  string
	UserID string
}
