package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/lectio/internal/leveling"
	"github.com/abhisek/lectio/internal/store"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidInput is returned when a username or password breaks the rules.
	ErrInvalidInput = errors.New("invalid registration input")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 6

	// maxPasswordBytes is the longest input bcrypt accepts.
	maxPasswordBytes = 72
)

// Config holds credential and token settings.
type Config struct {
	// Secret signs tokens. Required for IssueToken and ParseToken.
	Secret string

	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration

	// BcryptCost is the bcrypt work factor.
	BcryptCost int

	// StartLevel is the level assigned to new users.
	StartLevel leveling.Level
}

// DefaultConfig returns sensible defaults. Secret is left empty.
func DefaultConfig() Config {
	return Config{
		TokenTTL:   24 * time.Hour,
		BcryptCost: 12,
		StartLevel: leveling.LevelBeginner,
	}
}

// Service registers users and checks their credentials.
type Service struct {
	users store.UserRepo
	cfg   Config
	now   func() time.Time
}

// NewService creates an auth service.
func NewService(users store.UserRepo, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.StartLevel == 0 {
		cfg.StartLevel = leveling.LevelBeginner
	}
	return &Service{users: users, cfg: cfg, now: time.Now}
}

// Register creates a user with a bcrypt-hashed password. A taken username
// yields store.ErrDuplicateUser.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, username, string(hash), int(s.cfg.StartLevel))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Verify returns the user if the password matches.
func (s *Service) Verify(ctx context.Context, username, password string) (*store.User, error) {
	u, err := s.users.ByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login verifies the credentials and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *store.User, error) {
	u, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func validateCredentials(username, password string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, minUsernameLen, maxUsernameLen)
	}
	if strings.ContainsAny(username, " \t\r\n") {
		return fmt.Errorf("%w: username must not contain spaces", ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}
