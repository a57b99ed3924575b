package core

import "time"

// User is the stored credential record. It never leaves the store as-is:
// callers receive a PublicUser.
type User struct {
	ID            string    `json:"id"`
	Identifier    string    `json:"identifier"`
	PasswordHash  string    `json:"passwordHash"`
	PasswordSalt  string    `json:"passwordSalt"`
	KDFIterations int       `json:"kdfIterations,omitempty"`
	DisplayName   string    `json:"displayName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PublicUser is the subset of User that is safe to hand to callers.
type PublicUser struct {
	ID          string `json:"id"`
	Identifier  string `json:"identifier"`
	DisplayName string `json:"displayName"`
}

// Public strips the credential material from u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Identifier:  u.Identifier,
		DisplayName: u.DisplayName,
	}
}

// Session is the persisted "last known" session. An empty UserID means
// nobody is logged in.
type Session struct {
	UserID string `json:"userId"`
}

// Theme is the persisted UI theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}
