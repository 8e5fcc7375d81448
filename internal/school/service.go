package school

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"schoolms/internal/auth"
)

var recordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "school_records_created_total",
	Help: "Records created, by kind.",
}, []string{"kind"})

// Service implements registration, login and record lifecycle rules on top of a Repository.
// It holds no state between calls beyond its collaborators.
type Service struct {
	repo   Repository
	creds  *auth.Credentials
	tokens *auth.Tokens
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a service backed by a repository.
func NewService(repo Repository, creds *auth.Credentials, tokens *auth.Tokens, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:   repo,
		creds:  creds,
		tokens: tokens,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"-"`
	User      PublicUser `json:"user"`
}

// PublicUser is the part of an account that is safe to hand to clients.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar"`
}

func publicUser(acc Account) PublicUser {
	return PublicUser{
		ID:       acc.ID,
		Username: acc.Username,
		Email:    acc.Email,
		FullName: acc.FullName,
		Role:     acc.Role,
		Avatar:   acc.Avatar,
	}
}

// Register creates an account. Reusing a username or an email is ErrAccountExists.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate(in); err != nil {
		return Account{}, err
	}

	exists, err := s.repo.AccountExists(ctx, in.Username, in.Email)
	if err != nil {
		return Account{}, errors.Wrap(err, "checking account uniqueness")
	}
	if exists {
		return Account{}, ErrAccountExists
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return Account{}, err
	}

	role := in.Role
	if role == "" {
		role = RoleAdmin
	}
	acc := Account{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         role,
		Avatar:       in.Avatar,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return Account{}, errors.Wrap(err, "creating account")
	}
	recordsCreated.WithLabelValues("account").Inc()
	return acc, nil
}

// Login checks credentials and issues a session token.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	acc, err := s.repo.AccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if IsNotFound(err) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, errors.Wrap(err, "loading account")
	}
	if !s.creds.Verify(password, acc.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(auth.Identity{ID: acc.ID, Username: acc.Username, Role: string(acc.Role)})
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "issuing token")
	}
	return LoginResult{Token: token, ExpiresAt: exp, User: publicUser(acc)}, nil
}

// Account returns the account with id, without its password hash.
func (s *Service) Account(ctx context.Context, id string) (PublicUser, error) {
	acc, err := s.repo.AccountByID(ctx, id)
	if err != nil {
		return PublicUser{}, err
	}
	return publicUser(acc), nil
}

// AdminSeed describes the bootstrap administrator.
type AdminSeed struct {
	Username string
	Password string
	Email    string
}

// SeedAdmin creates the bootstrap administrator unless an admin already exists.
// It reports whether an account was created.
func (s *Service) SeedAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	exists, err := s.repo.RoleExists(ctx, RoleAdmin)
	if err != nil {
		return false, errors.Wrap(err, "looking up admin")
	}
	if exists {
		return false, nil
	}

	hash, err := s.creds.Hash(seed.Password)
	if err != nil {
		return false, err
	}
	acc := Account{
		ID:           uuid.NewString(),
		Username:     seed.Username,
		Email:        seed.Email,
		PasswordHash: hash,
		FullName:     "System Administrator",
		Role:         RoleAdmin,
		CreatedAt:    s.now(),
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return false, errors.Wrap(err, "creating admin")
	}
	s.log.Warn("default admin created, rotate its password", "username", seed.Username)
	return true, nil
}

// ResetPassword replaces the password of username.
func (s *Service) ResetPassword(ctx context.Context, username, password string) error {
	if len(password) < 6 {
		return NewValidationError(errors.New("validation failed"),
			FieldError{Field: "password", Error: "password must be at least 6 characters in length"})
	}
	acc, err := s.repo.AccountByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := s.creds.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, acc.ID, hash)
}
