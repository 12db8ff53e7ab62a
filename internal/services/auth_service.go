package services

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"offerbytes/internal/domain"
	applog "offerbytes/internal/log"
	"offerbytes/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService binds shop sessions to user accounts. Price locks belong to the
// user, so the actor it resolves is what the offer policy keys on.
type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService {
	return &AuthService{Users: users}
}

// Login checks the credentials and binds sid to the user. The cart stays on
// the session, so offers made before logging in remain in it.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	if sid == "" {
		return nil
	}
	return s.Users.UnbindSession(sid)
}

// CurrentUser is the user bound to sid, or nil for an anonymous session.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	if sid == "" {
		return nil, nil
	}
	u, err := s.Users.SessionUser(sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// Resolve returns the actor driving sid. A lookup failure is logged and
// degrades to an anonymous actor, which is never price locked.
func (s *AuthService) Resolve(sid string) (domain.Actor, *domain.User) {
	u, err := s.CurrentUser(sid)
	if err != nil {
		applog.Error(nil, "auth.session.lookup.fail", err, map[string]any{"sid": sid})
		u = nil
	}
	return domain.ActorFor(sid, u), u
}
