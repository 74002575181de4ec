package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/pkg/hash"
	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/pkg/tokens"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/mykafka"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

var studentIDPattern = regexp.MustCompile(`^\d{4}-\d{3}$`)

type Identity struct {
	UserID    string
	Name      string
	Role      string
	SessionID string
}

func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == models.RoleAdmin
}

type LoginInput struct {
	UserID   string
	Name     string
	Password string
	IsAdmin  bool
}

type LoginResult struct {
	Token   string
	User    *models.User
	Created bool
}

type AuthService struct {
	Repo       *repo.GormRepo
	Secret     []byte
	SessionTTL time.Duration
	Events     mykafka.Publisher
	Now        func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Login authenticates a user and opens a session. An unseen customer id is
// registered on the spot with the welcome balance.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "user_id", in.UserID)

	in.UserID = strings.TrimSpace(in.UserID)
	in.Name = strings.TrimSpace(in.Name)
	if in.UserID == "" || in.Password == "" {
		return nil, fmt.Errorf("user id and password are required: %w", ErrValidation)
	}
	if !in.IsAdmin && !studentIDPattern.MatchString(in.UserID) {
		return nil, fmt.Errorf("student id must look like 2023-001: %w", ErrValidation)
	}

	now := s.now()
	created := false

	user, err := s.Repo.GetUser(ctx, in.UserID)
	switch {
	case err == nil:
		if !hash.CheckPassword(user.PasswordHash, in.Password) {
			l.Warn("login_failed", "reason", "wrong password")
			return nil, fmt.Errorf("wrong password: %w", ErrUnauthorized)
		}
		if in.IsAdmin && !user.IsAdmin() {
			l.Warn("login_failed", "reason", "not an admin")
			return nil, fmt.Errorf("not an admin: %w", ErrUnauthorized)
		}
		if err := s.Repo.TouchLastSeen(ctx, user.ID, now); err != nil {
			return nil, err
		}
		user.LastSeen = &now

	case errors.Is(err, gorm.ErrRecordNotFound):
		if in.IsAdmin {
			l.Warn("login_failed", "reason", "unknown admin")
			return nil, fmt.Errorf("unknown admin: %w", ErrUnauthorized)
		}
		if in.Name == "" {
			return nil, fmt.Errorf("name is required on first login: %w", ErrValidation)
		}
		pwHash, err := hash.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user = &models.User{
			ID:           in.UserID,
			Name:         in.Name,
			PasswordHash: pwHash,
			Role:         models.RoleCustomer,
			Points:       models.WelcomePoints,
			LastSeen:     &now,
		}
		if err := s.Repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		created = true

	default:
		return nil, err
	}

	token, err := s.openSession(ctx, user, now)
	if err != nil {
		return nil, err
	}

	evType := mykafka.EventUserLoggedIn
	if created {
		evType = mykafka.EventUserCreated
	}
	publish(ctx, s.Events, mykafka.TopicUsers, user.ID, mykafka.UserEvent{
		Type: evType, UserID: user.ID, Role: user.Role, OccurredAt: now,
	})

	l.Info("login_success", "created", created)
	return &LoginResult{Token: token, User: user, Created: created}, nil
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, now time.Time) (string, error) {
	sess := &models.Session{JTI: tokens.NewJTI(), UserID: user.ID, CreatedAt: now}
	var exp time.Time
	if s.SessionTTL > 0 {
		exp = now.Add(s.SessionTTL)
		sess.ExpiresAt = &exp
	}

	token, err := tokens.NewSessionToken(s.Secret, user.ID, user.Role, sess.JTI, exp)
	if err != nil {
		return "", err
	}
	if err := s.Repo.CreateSession(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a bearer token to the caller. Every failure, whatever the
// cause, is reported as ErrUnauthorized.
func (s *AuthService) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", ErrUnauthorized)
	}

	claims, err := tokens.SessionClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	sess, err := s.Repo.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: session lookup: %w", ErrUnauthorized, err)
	}
	if sess.UserID != claims.Subject || !sess.Active(s.now()) {
		return nil, fmt.Errorf("session is not active: %w", ErrUnauthorized)
	}

	user, err := s.Repo.GetUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user lookup: %w", ErrUnauthorized, err)
	}

	return &Identity{UserID: user.ID, Name: user.Name, Role: user.Role, SessionID: sess.JTI}, nil
}

func (s *AuthService) Logout(ctx context.Context, id *Identity) error {
	if id == nil || id.SessionID == "" {
		return nil
	}
	return s.Repo.RevokeSession(ctx, id.SessionID)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, err
}
