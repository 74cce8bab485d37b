package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"medicare/internal/domain"
	"medicare/internal/repository"
)

// SignupInput is the signup form.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthService регистрирует и аутентифицирует пользователей
type AuthService struct {
	users  repository.UserRepository
	hasher *PasswordHasher
	log    logrus.FieldLogger
}

func NewAuthService(users repository.UserRepository, hasher *PasswordHasher, log logrus.FieldLogger) *AuthService {
	return &AuthService{users: users, hasher: hasher, log: log}
}

// CheckSignup returns every rule the input breaks, in form order. An empty
// result does not mean the username is still free.
func (s *AuthService) CheckSignup(ctx context.Context, in SignupInput) []error {
	var problems []error
	if in.Username != "" {
		if utf8.RuneCountInString(in.Username) > MaxUsernameLength {
			problems = append(problems, domain.ErrUsernameTooLong)
		} else if _, err := s.users.Get(ctx, in.Username); err == nil {
			problems = append(problems, domain.ErrUsernameTaken)
		}
	}
	if in.Email != "" && !ValidEmail(in.Email) {
		problems = append(problems, domain.ErrInvalidEmail)
	}
	if in.Password != "" {
		if err := ValidatePassword(in.Password); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}

// Signup creates a user with role user.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrBlankField
	}
	if problems := s.CheckSignup(ctx, in); len(problems) > 0 {
		return nil, problems[0]
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := domain.User{Username: in.Username, Email: in.Email, Password: hash, Role: domain.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.WithField("user", u.Username).Info("user signed up")
	return &u, nil
}

// Login checks the credentials and returns the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrBlankField
	}
	u, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !s.hasher.Verify(password, u.Password) {
		return nil, domain.ErrWrongPassword
	}
	return u, nil
}
