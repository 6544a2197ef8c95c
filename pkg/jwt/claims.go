package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session identity inside the access token. The
// registered ID (jti) keys the server-side session record so logout can
// revoke a token before it expires.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
