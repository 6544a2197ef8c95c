package auth

import "github.com/johnquangdev/meeting-minutes/internal/domain/entities"

// AuthResponse is returned by register and login
type AuthResponse struct {
	Success bool                 `json:"success"`
	User    *entities.PublicUser `json:"user"`
	Token   string               `json:"token"`
}
