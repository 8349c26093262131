package user

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/neuralert/stroke-risk-backend/internal/logger"
)

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register creates an account. Emails are stored lowercased so
// uniqueness is case-insensitive.
func (s *Service) Register(u User, password string) (User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Name = strings.TrimSpace(u.Name)

	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.PasswordHash = string(hashed)
	u.IsActive = true

	created, err := s.repo.Create(u)
	if err != nil {
		return User{}, err
	}
	s.log.Info("new user registered", "email", created.Email, "id", created.ID)
	return created, nil
}

// Authenticate checks credentials and the active flag, then records the
// login time. A last-login bookkeeping failure does not fail the login.
func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	if !u.IsActive {
		return User{}, ErrInactiveAccount
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(u.ID, now); err != nil {
		s.log.Warn("failed to update last login", "id", u.ID, "error", err)
	} else {
		u.LastLogin = &now
	}
	return u, nil
}

// GetActive loads a user and re-checks the active flag. Authenticated
// requests go through this so a deactivated account loses access
// immediately, regardless of token validity.
func (s *Service) GetActive(id int) (User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}
	if !u.IsActive {
		return User{}, ErrInactiveAccount
	}
	return u, nil
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
