package service

import (
	"context"
	"errors"
	"time"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/models"
	"github.com/formforge/formforge/internal/repository"
	"github.com/formforge/formforge/internal/session"
)

// SessionStore is the refresh-token backend. Satisfied by session.RedisStore.
type SessionStore interface {
	Save(ctx context.Context, tokenHash string, data session.TokenData) error
	Lookup(ctx context.Context, tokenHash string) (session.TokenData, error)
	Revoke(ctx context.Context, tokenHash string) error
}

type AuthService struct {
	users      *repository.UserRepo
	workspaces *WorkspaceService
	sessions   SessionStore
	notifier   *auth.Notifier
	jwtSecret  string
}

func NewAuthService(users *repository.UserRepo, workspaces *WorkspaceService, sessions SessionStore, notifier *auth.Notifier, jwtSecret string) *AuthService {
	return &AuthService{
		users:      users,
		workspaces: workspaces,
		sessions:   sessions,
		notifier:   notifier,
		jwtSecret:  jwtSecret,
	}
}

type AuthResult struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"refreshToken"`
	User         models.UserResponse `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	existing, _ := s.users.FindByEmail(ctx, email)
	if existing != nil {
		return nil, errors.New("email already registered")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         "user",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	// Every account starts with a default workspace.
	if s.workspaces != nil {
		authed := auth.WithUser(ctx, &auth.Claims{UserID: id, Email: email, Role: user.Role})
		if _, err := s.workspaces.Create(authed, id, "My workspace", "", false); err != nil {
			return nil, err
		}
	}
	return s.issue(ctx, user, auth.EventLogin)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, errors.New("invalid credentials")
	}
	return s.issue(ctx, user, auth.EventLogin)
}

// Refresh trades a valid refresh token for a fresh token pair. The used
// token is revoked: refresh tokens are single-use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	hash := session.HashToken(refreshToken)
	data, err := s.sessions.Lookup(ctx, hash)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Revoke(ctx, hash); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, data.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, session.ErrSessionNotFound
	}
	return s.issue(ctx, user, auth.EventLogin)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken, userID string) error {
	if refreshToken != "" {
		if err := s.sessions.Revoke(ctx, session.HashToken(refreshToken)); err != nil {
			return err
		}
	}
	s.notifier.Notify(auth.EventLogout, userID)
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

// SeedAdmin creates the admin account on first boot. A no-op when the email
// is already taken.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, _ := s.users.FindByEmail(ctx, email)
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Admin",
		Role:         "admin",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return err
}

func (s *AuthService) issue(ctx context.Context, user *models.User, event auth.Event) (*AuthResult, error) {
	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, hash, err := session.NewToken()
	if err != nil {
		return nil, err
	}
	err = s.sessions.Save(ctx, hash, session.TokenData{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(event, user.ID)
	return &AuthResult{Token: token, RefreshToken: refresh, User: user.ToResponse()}, nil
}
