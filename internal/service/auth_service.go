package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"workdesk/api/internal/access"
	"workdesk/api/internal/apperr"
	"workdesk/api/internal/cache"
	"workdesk/api/internal/config"
	"workdesk/api/internal/ids"
	"workdesk/api/internal/models"
	"workdesk/api/internal/security"
)

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cache    *redis.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, cacheClient *redis.Client, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cache:    cacheClient,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Affiliation     string
	JobTitle        string
	Gender          string
	Company         string
	Research        string
	PhoneNumber     string
	BirthDate       *time.Time
	Password        string
	ConfirmPassword string
}

type AuthResult struct {
	Token string
	User  models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: email and password required", apperr.ErrInvalidInput)
	}
	if input.Password != input.ConfirmPassword {
		return AuthResult{}, fmt.Errorf("%w: passwords do not match", apperr.ErrInvalidInput)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		Affiliation:  input.Affiliation,
		JobTitle:     input.JobTitle,
		Gender:       input.Gender,
		Company:      input.Company,
		Research:     input.Research,
		PhoneNumber:  input.PhoneNumber,
		BirthDate:    input.BirthDate,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	return s.issueSession(ctx, user, "", "")
}

type LoginInput struct {
	// Identifier is an email address or a phone number.
	Identifier string
	Password   string
	IPAddress  string
	UserAgent  string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	// Emails are stored lowercased, so the identifier is folded the same way.
	// Phone numbers carry no letters and pass through unchanged.
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))
	user, err := s.users.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	return s.issueSession(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) issueSession(ctx context.Context, user models.User, ip, userAgent string) (AuthResult, error) {
	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.cfg.Security.SessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	token, err := security.GenerateSessionToken(
		s.cfg.Security.SessionSecret,
		user.ID,
		session.ID,
		string(user.Role),
		user.Name,
		user.Email,
		s.cfg.Security.SessionTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, cache.SessionKey(sessionID)).Err(); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session cache invalidation failed")
		}
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
// Called once on startup.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	cfg := s.cfg.Admin
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	if _, err := s.users.FindByEmail(ctx, cfg.Email); err == nil {
		return nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	passwordHash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:           ids.New(),
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	s.log.Info().Str("email", cfg.Email).Msg("admin account created")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, actor access.Context) (models.User, error) {
	if actor.Anonymous() {
		return models.User{}, apperr.ErrUnauthorized
	}
	return s.users.GetByID(ctx, actor.UserID)
}

type ProfileInput struct {
	Name        string
	Email       string
	Affiliation string
	PhoneNumber string
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor access.Context, input ProfileInput) error {
	if actor.Anonymous() {
		return apperr.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}

	user.Name = input.Name
	user.Email = strings.TrimSpace(strings.ToLower(input.Email))
	user.Affiliation = input.Affiliation
	user.PhoneNumber = input.PhoneNumber

	return s.users.Update(ctx, user)
}

func (s *AuthService) UpdateSecurity(ctx context.Context, actor access.Context, currentPassword, newPassword string) error {
	if actor.Anonymous() {
		return apperr.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		return fmt.Errorf("%w: current password is incorrect", apperr.ErrInvalidInput)
	}

	if newPassword == "" {
		return nil
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	return s.users.Update(ctx, user)
}

type UserInput struct {
	Name        string
	Email       string
	Affiliation string
	JobTitle    string
	Gender      string
	Company     string
	Research    string
	PhoneNumber string
	BirthDate   *time.Time
	Password    string
	Role        models.Role
}

// AddUser is the admin path for creating accounts with any role, including
// employees.
func (s *AuthService) AddUser(ctx context.Context, actor access.Context, input UserInput) (models.User, error) {
	if !actor.IsAdmin() {
		return models.User{}, apperr.ErrUnauthorized
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return models.User{}, fmt.Errorf("%w: email and password required", apperr.ErrInvalidInput)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, input.Role)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		Affiliation:  input.Affiliation,
		JobTitle:     input.JobTitle,
		Gender:       input.Gender,
		Company:      input.Company,
		Research:     input.Research,
		PhoneNumber:  input.PhoneNumber,
		BirthDate:    input.BirthDate,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, actor access.Context, id string, input UserInput) (models.User, error) {
	if !actor.IsAdmin() {
		return models.User{}, apperr.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalidInput, input.Role)
	}

	user.Name = input.Name
	user.Email = strings.TrimSpace(strings.ToLower(input.Email))
	user.Affiliation = input.Affiliation
	user.JobTitle = input.JobTitle
	user.Gender = input.Gender
	user.Company = input.Company
	user.Research = input.Research
	user.PhoneNumber = input.PhoneNumber
	if input.BirthDate != nil {
		user.BirthDate = input.BirthDate
	}
	user.Role = role

	if input.Password != "" {
		hash, err := security.HashPassword(input.Password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, actor access.Context, id string) error {
	if !actor.IsAdmin() {
		return apperr.ErrUnauthorized
	}
	return s.users.Delete(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context, actor access.Context) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	return s.users.List(ctx)
}
