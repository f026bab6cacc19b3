package identity

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"docuvault/api/internal/auth"
	"docuvault/api/internal/rbac"
	"docuvault/api/internal/store"
	"docuvault/api/internal/util"
)

var (
	ErrInvalid            = errors.New("invalid request")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrUnknownRole        = errors.New("unknown role")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore defines the relational storage the service needs
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, userID int64) (store.User, error)
	CreateUser(ctx context.Context, user store.User) (store.User, error)
	UpdateUserRole(ctx context.Context, email, role string) (bool, error)
}

// SessionStore defines the Redis-backed OTP and session storage
type SessionStore interface {
	SavePendingRegistration(ctx context.Context, reg PendingRegistration, ttl time.Duration) error
	LookupPendingRegistration(ctx context.Context, email string) (PendingRegistration, error)
	DeletePendingRegistration(ctx context.Context, email string) error
	SaveRefreshSession(ctx context.Context, tokenHash string, session RefreshSession, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (RefreshSession, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}

// Mailer sends the one-time registration code
type Mailer interface {
	IsConfigured() bool
	SendOTPEmail(to, userName, code string, ttlMinutes int) error
}

// Service provides registration with email verification, login, and role
// management.
type Service struct {
	users       UserStore
	sessions    SessionStore
	mailer      Mailer
	logger      *zap.Logger
	tokenSecret []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	otpTTL      time.Duration
}

func NewService(users UserStore, sessions SessionStore, mailer Mailer, logger *zap.Logger, tokenSecret string, accessTTL, refreshTTL, otpTTL time.Duration) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		mailer:      mailer,
		logger:      logger,
		tokenSecret: []byte(tokenSecret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		otpTTL:      otpTTL,
	}
}

// RegisterRequest contains registration parameters
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

// Register parks the registration in Redis and emails a one-time code. The
// user row is only created once VerifyOTP succeeds. When no SMTP server is
// configured the code is logged instead, which keeps local development
// working without a mail relay.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return fmt.Errorf("%w: email, username, and password are required", ErrInvalid)
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalid)
	}

	_, err := s.users.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	reg := PendingRegistration{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Code:         code,
		CreatedAt:    time.Now(),
	}
	if err := s.sessions.SavePendingRegistration(ctx, reg, s.otpTTL); err != nil {
		return err
	}

	ttlMinutes := int(s.otpTTL.Minutes())
	if s.mailer != nil && s.mailer.IsConfigured() {
		if err := s.mailer.SendOTPEmail(req.Email, req.Username, code, ttlMinutes); err != nil {
			return fmt.Errorf("send otp email: %w", err)
		}
	} else {
		s.logger.Info("smtp not configured, otp code logged",
			zap.String("email", req.Email),
			zap.String("code", code))
	}
	return nil
}

// VerifyOTP checks the emailed code and creates the user account.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (store.User, error) {
	if email == "" || code == "" {
		return store.User{}, fmt.Errorf("%w: email and code are required", ErrInvalid)
	}

	reg, err := s.sessions.LookupPendingRegistration(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return store.User{}, ErrInvalidCode
	}
	if err != nil {
		return store.User{}, err
	}
	if reg.Code != code {
		return store.User{}, ErrInvalidCode
	}

	user, err := s.users.CreateUser(ctx, store.User{
		Email:        reg.Email,
		Username:     reg.Username,
		PasswordHash: reg.PasswordHash,
		Role:         string(rbac.RoleViewer),
	})
	if err != nil {
		return store.User{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.sessions.DeletePendingRegistration(ctx, email); err != nil {
		s.logger.Warn("delete pending registration", zap.Error(err))
	}
	return user, nil
}

// LoginResult contains the issued token pair and the authenticated user
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         store.User
}

// Login authenticates by email and password and issues an access token plus
// a refresh token backed by a Redis session.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrInvalid)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	accessToken, err := s.issueAccessToken(user)
	if err != nil {
		return LoginResult{}, err
	}

	refreshToken, err := generateToken()
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate refresh token: %w", err)
	}
	session := RefreshSession{UserID: user.ID, Email: user.Email, Role: user.Role}
	expiresAt := time.Now().Add(s.refreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refreshToken), session, expiresAt); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         user,
	}, nil
}

// Refresh exchanges a live refresh token for a fresh access token. The role
// is re-read from the user row so role changes take effect on refresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	if refreshToken == "" {
		return LoginResult{}, fmt.Errorf("%w: refresh token is required", ErrInvalid)
	}

	session, err := s.sessions.LookupRefreshSession(ctx, auth.HashToken(refreshToken))
	if errors.Is(err, ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	accessToken, err := s.issueAccessToken(user)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         user,
	}, nil
}

// Logout revokes the refresh session
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
}

// ChangeRole assigns a new role to the user with the given email.
func (s *Service) ChangeRole(ctx context.Context, email, role string) error {
	if !rbac.Valid(role) {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	updated, err := s.users.UpdateUserRole(ctx, email, role)
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

// GetUserByEmail resolves the account for the given email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, ErrUserNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *Service) issueAccessToken(user store.User) (string, error) {
	token, err := auth.IssueToken(s.tokenSecret, auth.Claims{
		Sub:   strconv.FormatInt(user.ID, 10),
		Email: user.Email,
		Role:  user.Role,
		JTI:   util.NewID(""),
		Exp:   time.Now().Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return token, nil
}

// generateCode creates a 6-digit numeric one-time code
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateToken creates a secure random token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
