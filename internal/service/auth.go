package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/hash"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
	"github.com/Skotchmaster/catalog_api/internal/transport"
	"github.com/Skotchmaster/catalog_api/internal/validation"
)

const tokenName = "auth"

type AuthService struct {
	Repo      *repo.GormRepo
	Tokens    *tokens.Issuer
	Validator *validation.Validator
	Events    events.Publisher
	Now       func() time.Time
}

type LoginResult struct {
	Token     string
	User      *models.User
	ExpiresAt *time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	bag := req.TypeErrors()
	s.Validator.Collect(&req, bag)
	if err := bag.Err(); err != nil {
		l.Warn("login_failed", "status", 422, "reason", "validation")
		return nil, err
	}

	user, err := s.Repo.FindUserByEmail(ctx, *req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 422, "reason", "invalid credentials")
			return nil, invalidCredentials()
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, *req.Password) {
		l.Warn("login_failed", "status", 422, "reason", "invalid credentials", "user_id", user.ID)
		return nil, invalidCredentials()
	}

	issued, err := s.Tokens.Issue(user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	token := &models.AccessToken{
		UserID:    user.ID,
		Name:      tokenName,
		JTI:       issued.JTI,
		TokenHash: issued.Hash,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.Repo.CreateToken(ctx, token); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store token", "error", err)
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.UserLoggedIn, UserID: user.ID, At: s.now()})
	l.Info("login_ok", "user_id", user.ID, "token_id", token.ID)

	return &LoginResult{Token: issued.Plaintext, User: user, ExpiresAt: issued.ExpiresAt}, nil
}

// Logout revokes only the token that authenticated the request.
func (s *AuthService) Logout(ctx context.Context, token *models.AccessToken) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")
	if token == nil {
		return ErrUnauthenticated
	}

	if err := s.Repo.DeleteToken(ctx, token.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("logout_failed", "status", 401, "reason", "token already revoked")
			return ErrUnauthenticated
		}
		l.Error("logout_failed", "status", 500, "error", err)
		return err
	}

	s.publish(ctx, events.Event{Type: events.UserLoggedOut, UserID: token.UserID, At: s.now()})
	l.Info("logout_ok", "user_id", token.UserID, "token_id", token.ID)
	return nil
}

// Authenticate resolves a bearer token to its live user. Every failure is ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, plaintext string) (*models.User, *models.AccessToken, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")
	if plaintext == "" {
		return nil, nil, ErrUnauthenticated
	}

	claims, err := s.Tokens.Parse(plaintext)
	if err != nil {
		l.Debug("auth_failed", "reason", "bad token", "error", err)
		return nil, nil, ErrUnauthenticated
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	stored, err := s.Repo.FindTokenByHash(ctx, tokens.Sha256Hex(plaintext))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Debug("auth_failed", "reason", "token revoked or unknown")
			return nil, nil, ErrUnauthenticated
		}
		l.Error("auth_failed", "status", 500, "error", err)
		return nil, nil, err
	}

	now := s.now()
	if stored.JTI != claims.ID || stored.UserID != userID || stored.Expired(now) {
		l.Debug("auth_failed", "reason", "token mismatch or expired", "token_id", stored.ID)
		return nil, nil, ErrUnauthenticated
	}

	user, err := s.Repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, err
	}

	if err := s.Repo.TouchToken(ctx, stored.ID, now); err != nil {
		l.Warn("touch_token_failed", "token_id", stored.ID, "error", err)
	} else {
		stored.LastUsedAt = &now
	}
	return user, stored, nil
}

func (s *AuthService) publish(ctx context.Context, ev events.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "type", ev.Type, "error", err)
	}
}
