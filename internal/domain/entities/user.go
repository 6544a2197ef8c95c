package entities

import (
	"strings"
	"time"
)

// User represents an account that owns meeting records. Email is stored
// lower-cased and is unique case-insensitively.
type User struct {
	ID           int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string `json:"name" gorm:"type:varchar(255);not null"`
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password;type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the GORM table name
func (User) TableName() string {
	return "users"
}

// NormalizeEmail trims and lower-cases an email address for storage and
// lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a user with a normalized email. The password hash is
// set by the auth service.
func NewUser(name, email string) *User {
	return &User{
		Name:  strings.TrimSpace(name),
		Email: NormalizeEmail(email),
	}
}

// PublicUser is the user shape exposed over the API
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToPublic converts User to PublicUser
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
