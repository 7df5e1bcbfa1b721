package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"devjobs/internal/domain/user"
	"devjobs/internal/notifier"
	"devjobs/internal/pkg/jwt"
	"devjobs/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidRole        = errors.New("invalid role")
	ErrCompanyRequired    = errors.New("company name is required for employers")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrRefreshExpired     = errors.New("refresh token expired")
	ErrInternal           = errors.New("internal error")
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Company   string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Company   *string
}

type TokenPair struct {
	Access  string
	Refresh string
}

type Service struct {
	users  repository.UserRepository
	tokens jwt.Service
	notif  notifier.Notifier
	logger *log.Logger
}

func NewService(users repository.UserRepository, tokens jwt.Service, notif notifier.Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{users: users, tokens: tokens, notif: notif, logger: logger}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, TokenPair, error) {
	email := user.NormalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	role := user.Role(strings.TrimSpace(in.Role))
	company := strings.TrimSpace(in.Company)

	if email == "" || in.Password == "" || firstName == "" || lastName == "" || role == "" {
		return user.User{}, TokenPair{}, ErrMissingFields
	}
	// Admin accounts are provisioned, never self-registered.
	if role != user.RoleSeeker && role != user.RoleEmployer {
		return user.User{}, TokenPair{}, ErrInvalidRole
	}
	if role == user.RoleEmployer && company == "" {
		return user.User{}, TokenPair{}, ErrCompanyRequired
	}
	if len(strings.TrimSpace(in.Password)) < 8 {
		return user.User{}, TokenPair{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}

	created, err := s.users.Create(ctx, user.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Company:      company,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return user.User{}, TokenPair{}, ErrEmailTaken
		}
		return user.User{}, TokenPair{}, ErrInternal
	}

	// The welcome mail fires after the insert committed; a delivery
	// failure never unwinds the registration.
	s.notify(ctx, created.Email, notifier.KindWelcome, notifier.Data{FirstName: created.FirstName})

	pair, err := s.issueTokens(created)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}
	return created.Sanitize(), pair, nil
}

// Login deliberately reports unknown email and wrong password the same
// way so callers cannot enumerate registered addresses.
func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, TokenPair, error) {
	email := user.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, TokenPair{}, ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return user.User{}, TokenPair{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return user.User{}, TokenPair{}, ErrInternal
	}
	return u.Sanitize(), pair, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshExpired
		}
		return TokenPair{}, ErrInvalidRefresh
	}
	if !s.tokens.IsRefreshToken(claims) {
		return TokenPair{}, ErrInvalidRefresh
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefresh
		}
		return TokenPair{}, ErrInternal
	}

	pair, err := s.issueTokens(u)
	if err != nil {
		return TokenPair{}, ErrInternal
	}
	return pair, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return u.Sanitize(), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	if in.FirstName != nil {
		if v := strings.TrimSpace(*in.FirstName); v != "" {
			u.FirstName = v
		}
	}
	if in.LastName != nil {
		if v := strings.TrimSpace(*in.LastName); v != "" {
			u.LastName = v
		}
	}
	// Company edits apply to employers only; existing jobs keep the
	// company value copied at posting time.
	if in.Company != nil && u.Role == user.RoleEmployer {
		u.Company = strings.TrimSpace(*in.Company)
	}

	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return updated.Sanitize(), nil
}

func (s *Service) issueTokens(u user.User) (TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Service) notify(ctx context.Context, recipient string, kind notifier.Kind, data notifier.Data) {
	if s.notif == nil {
		return
	}
	if err := s.notif.Notify(ctx, recipient, kind, data); err != nil {
		s.logger.Printf("[Notify] %s to %s failed: %v", kind, recipient, err)
	}
}

