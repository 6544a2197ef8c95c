package auth

import (
	"context"
	stdErrors "errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/johnquangdev/meeting-minutes/errors"
	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-minutes/pkg/jwt"
)

// SessionStore keeps active sessions server-side so logout revokes
// tokens before their JWT expiry. Implemented by the Redis-backed store.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

// Service handles registration, login, logout and session validation
type Service struct {
	userRepo   repositories.UserRepository
	sessions   SessionStore
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewService creates the auth service
func NewService(userRepo repositories.UserRepository, sessions SessionStore, jwtManager *jwt.Manager, logger *zap.Logger) *Service {
	return &Service{
		userRepo:   userRepo,
		sessions:   sessions,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates a new account and logs it in. Email uniqueness is
// case-insensitive: addresses are normalized to lower case before both
// the lookup and the insert.
func (s *Service) Register(ctx context.Context, name, email, password string) (*entities.PublicUser, string, error) {
	email = entities.NormalizeEmail(email)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", errors.ErrEmailTaken(email)
	} else if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, "", errors.ErrInternal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.ErrInternal(err)
	}

	user := entities.NewUser(name, email)
	user.PasswordHash = string(hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", errors.ErrInternal(err)
	}

	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("auth.register", zap.Int64("user_id", user.ID))
	return user.ToPublic(), token, nil
}

// Login verifies credentials and issues a session token. The same
// message is returned for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*entities.PublicUser, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, "", errors.ErrInvalidCredentials()
		}
		return nil, "", errors.ErrInternal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.ErrInvalidCredentials()
	}

	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("auth.login", zap.Int64("user_id", user.ID))
	return user.ToPublic(), token, nil
}

// Logout revokes the session behind the given token. An already invalid
// token is not an error: logout is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return errors.ErrInternal(err)
	}
	s.logger.Info("auth.logout", zap.Int64("user_id", claims.UserID))
	return nil
}

// ValidateSession checks the token signature and that its session has
// not been revoked, returning the owner id.
func (s *Service) ValidateSession(ctx context.Context, token string) (int64, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return 0, errors.ErrInvalidToken()
	}

	active, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return 0, errors.ErrInternal(err)
	}
	if !active {
		return 0, errors.ErrSessionExpired()
	}

	return claims.UserID, nil
}

func (s *Service) issueSession(ctx context.Context, user *entities.User) (string, error) {
	token, sessionID, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", errors.ErrInternal(err)
	}
	if err := s.sessions.Save(ctx, sessionID, user.ID, s.jwtManager.AccessExpiry()); err != nil {
		return "", errors.ErrInternal(err)
	}
	return token, nil
}
