package account

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/pkg/log"
)

var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a caller mistake in the submitted fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotAllowedError reports a signup attempt by a name outside the
// allow-list.
type NotAllowedError struct {
	Name string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("User %q is not allowed to sign up", e.Name)
}

// ErrInvalidCredentials deliberately does not say whether the email or
// the password was wrong.
var ErrInvalidCredentials = &ValidationError{Message: "Invalid credentials"}

// Service implements signup, login and password reset over the user
// repository. Signup is restricted to a configured allow-list of names.
type Service struct {
	users   core.UserRepository
	allowed map[string]struct{}
}

func NewService(users core.UserRepository, allowedUsers []string) *Service {
	allowed := make(map[string]struct{}, len(allowedUsers))
	for _, name := range allowedUsers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			allowed[name] = struct{}{}
		}
	}
	return &Service{users: users, allowed: allowed}
}

func (s *Service) Signup(ctx context.Context, name, email, password string) (core.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.User{}, &ValidationError{Message: "Name cannot be empty"}
	}
	if _, ok := s.allowed[strings.ToLower(name)]; !ok {
		return core.User{}, &NotAllowedError{Name: name}
	}
	if !emailRx.MatchString(email) {
		return core.User{}, &ValidationError{Message: "Invalid email format"}
	}
	if err := checkPasswordPolicy(password); err != nil {
		return core.User{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return core.User{}, err
	}

	user, err := s.users.Create(ctx, core.User{Name: name, Email: email, Password: hash})
	if err != nil {
		return core.User{}, err
	}

	log.FromCtx(ctx).Info().Str("email", email).Msg("user signed up")
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (core.User, error) {
	if email == "" || password == "" {
		return core.User{}, &ValidationError{Message: "Missing email or password"}
	}

	user, err := s.users.ByEmail(ctx, email)
	if err == core.ErrUserNotFound {
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, err
	}

	ok, err := VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return core.User{}, ErrInvalidCredentials
	}

	log.FromCtx(ctx).Info().Str("email", email).Msg("user logged in")
	return user, nil
}

func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := checkPasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		return err
	}

	log.FromCtx(ctx).Info().Str("email", email).Msg("password reset")
	return nil
}

func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return &ValidationError{Message: "Password must be at least 8 characters long"}
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return &ValidationError{Message: "Password must contain at least one uppercase letter and one digit"}
	}
	return nil
}
