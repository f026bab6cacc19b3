package identity

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"docuvault/api/internal/auth"
	"docuvault/api/internal/store"
)

type fakeUsers struct {
	getByEmailFn func(ctx context.Context, email string) (store.User, error)
	getByIDFn    func(ctx context.Context, userID int64) (store.User, error)
	createFn     func(ctx context.Context, user store.User) (store.User, error)
	updateRoleFn func(ctx context.Context, email, role string) (bool, error)
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return store.User{}, sql.ErrNoRows
}

func (f *fakeUsers) GetUserByID(ctx context.Context, userID int64) (store.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, userID)
	}
	return store.User{}, sql.ErrNoRows
}

func (f *fakeUsers) CreateUser(ctx context.Context, user store.User) (store.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (f *fakeUsers) UpdateUserRole(ctx context.Context, email, role string) (bool, error) {
	if f.updateRoleFn != nil {
		return f.updateRoleFn(ctx, email, role)
	}
	return true, nil
}

type fakeSessions struct {
	pending  map[string]PendingRegistration
	sessions map[string]RefreshSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		pending:  make(map[string]PendingRegistration),
		sessions: make(map[string]RefreshSession),
	}
}

func (f *fakeSessions) SavePendingRegistration(_ context.Context, reg PendingRegistration, _ time.Duration) error {
	f.pending[reg.Email] = reg
	return nil
}

func (f *fakeSessions) LookupPendingRegistration(_ context.Context, email string) (PendingRegistration, error) {
	reg, ok := f.pending[email]
	if !ok {
		return PendingRegistration{}, ErrNotFound
	}
	return reg, nil
}

func (f *fakeSessions) DeletePendingRegistration(_ context.Context, email string) error {
	delete(f.pending, email)
	return nil
}

func (f *fakeSessions) SaveRefreshSession(_ context.Context, tokenHash string, session RefreshSession, _ time.Time) error {
	f.sessions[tokenHash] = session
	return nil
}

func (f *fakeSessions) LookupRefreshSession(_ context.Context, tokenHash string) (RefreshSession, error) {
	session, ok := f.sessions[tokenHash]
	if !ok {
		return RefreshSession{}, ErrNotFound
	}
	return session, nil
}

func (f *fakeSessions) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

type fakeMailer struct {
	configured bool
	sentTo     string
	sentCode   string
}

func (f *fakeMailer) IsConfigured() bool { return f.configured }

func (f *fakeMailer) SendOTPEmail(to, _ string, code string, _ int) error {
	f.sentTo = to
	f.sentCode = code
	return nil
}

func newTestService(users UserStore, sessions SessionStore, mailer Mailer) *Service {
	return NewService(users, sessions, mailer, zap.NewNop(), "test-secret",
		15*time.Minute, 30*24*time.Hour, 5*time.Minute)
}

func TestRegisterSendsCode(t *testing.T) {
	sessions := newFakeSessions()
	mailer := &fakeMailer{configured: true}
	svc := newTestService(&fakeUsers{}, sessions, mailer)

	err := svc.Register(context.Background(), RegisterRequest{
		Email:    "avery@example.com",
		Username: "avery",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	reg, ok := sessions.pending["avery@example.com"]
	if !ok {
		t.Fatal("expected pending registration to be saved")
	}
	if len(reg.Code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", reg.Code)
	}
	if mailer.sentTo != "avery@example.com" || mailer.sentCode != reg.Code {
		t.Fatalf("expected code %q mailed to avery@example.com, got %q to %q", reg.Code, mailer.sentCode, mailer.sentTo)
	}
	if reg.PasswordHash == "longenough" {
		t.Fatal("password must not be stored in the clear")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestService(&fakeUsers{}, newFakeSessions(), &fakeMailer{})

	err := svc.Register(context.Background(), RegisterRequest{
		Email:    "avery@example.com",
		Username: "avery",
		Password: "short",
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Register() error = %v, want ErrInvalid", err)
	}
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	users := &fakeUsers{
		getByEmailFn: func(_ context.Context, email string) (store.User, error) {
			return store.User{ID: 1, Email: email}, nil
		},
	}
	svc := newTestService(users, newFakeSessions(), &fakeMailer{})

	err := svc.Register(context.Background(), RegisterRequest{
		Email:    "avery@example.com",
		Username: "avery",
		Password: "longenough",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestVerifyOTPCreatesViewer(t *testing.T) {
	sessions := newFakeSessions()
	sessions.pending["avery@example.com"] = PendingRegistration{
		Email:        "avery@example.com",
		Username:     "avery",
		PasswordHash: "$2a$10$hash",
		Code:         "482913",
	}

	var created store.User
	users := &fakeUsers{
		createFn: func(_ context.Context, user store.User) (store.User, error) {
			user.ID = 7
			created = user
			return user, nil
		},
	}
	svc := newTestService(users, sessions, &fakeMailer{})

	user, err := svc.VerifyOTP(context.Background(), "avery@example.com", "482913")
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if created.Role != "viewer" {
		t.Fatalf("new accounts should start as viewer, got %q", created.Role)
	}
	if _, ok := sessions.pending["avery@example.com"]; ok {
		t.Fatal("pending registration should be deleted after verification")
	}
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	sessions := newFakeSessions()
	sessions.pending["avery@example.com"] = PendingRegistration{
		Email: "avery@example.com",
		Code:  "482913",
	}
	svc := newTestService(&fakeUsers{}, sessions, &fakeMailer{})

	_, err := svc.VerifyOTP(context.Background(), "avery@example.com", "000000")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("VerifyOTP() error = %v, want ErrInvalidCode", err)
	}
}

func TestVerifyOTPRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(&fakeUsers{}, newFakeSessions(), &fakeMailer{})

	_, err := svc.VerifyOTP(context.Background(), "nobody@example.com", "482913")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("VerifyOTP() error = %v, want ErrInvalidCode", err)
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	users := &fakeUsers{
		getByEmailFn: func(_ context.Context, email string) (store.User, error) {
			return store.User{ID: 7, Email: email, Role: "editor", PasswordHash: string(hash)}, nil
		},
	}
	sessions := newFakeSessions()
	svc := newTestService(users, sessions, &fakeMailer{})

	result, err := svc.Login(context.Background(), "avery@example.com", "longenough")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := auth.ParseToken([]byte("test-secret"), result.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Sub != "7" || claims.Email != "avery@example.com" || claims.Role != "editor" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if result.RefreshToken == "" {
		t.Fatal("expected a refresh token")
	}
	session, err := sessions.LookupRefreshSession(context.Background(), auth.HashToken(result.RefreshToken))
	if err != nil {
		t.Fatalf("refresh session not saved: %v", err)
	}
	if session.UserID != 7 {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("longenough"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	users := &fakeUsers{
		getByEmailFn: func(_ context.Context, email string) (store.User, error) {
			return store.User{ID: 7, Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := newTestService(users, newFakeSessions(), &fakeMailer{})

	_, err = svc.Login(context.Background(), "avery@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(&fakeUsers{}, newFakeSessions(), &fakeMailer{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "longenough")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshReReadsRole(t *testing.T) {
	users := &fakeUsers{
		getByIDFn: func(_ context.Context, userID int64) (store.User, error) {
			return store.User{ID: userID, Email: "avery@example.com", Role: "admin"}, nil
		},
	}
	sessions := newFakeSessions()
	sessions.sessions[auth.HashToken("refresh-1")] = RefreshSession{UserID: 7, Email: "avery@example.com", Role: "viewer"}
	svc := newTestService(users, sessions, &fakeMailer{})

	result, err := svc.Refresh(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	claims, err := auth.ParseToken([]byte("test-secret"), result.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected refreshed role admin, got %q", claims.Role)
	}
}

func TestChangeRole(t *testing.T) {
	var gotEmail, gotRole string
	users := &fakeUsers{
		updateRoleFn: func(_ context.Context, email, role string) (bool, error) {
			gotEmail, gotRole = email, role
			return true, nil
		},
	}
	svc := newTestService(users, newFakeSessions(), &fakeMailer{})

	if err := svc.ChangeRole(context.Background(), "avery@example.com", "editor"); err != nil {
		t.Fatalf("ChangeRole() error = %v", err)
	}
	if gotEmail != "avery@example.com" || gotRole != "editor" {
		t.Fatalf("unexpected update: %s %s", gotEmail, gotRole)
	}
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	svc := newTestService(&fakeUsers{}, newFakeSessions(), &fakeMailer{})

	err := svc.ChangeRole(context.Background(), "avery@example.com", "superuser")
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("ChangeRole() error = %v, want ErrUnknownRole", err)
	}
}

func TestChangeRoleUnknownUser(t *testing.T) {
	users := &fakeUsers{
		updateRoleFn: func(_ context.Context, _, _ string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(users, newFakeSessions(), &fakeMailer{})

	err := svc.ChangeRole(context.Background(), "nobody@example.com", "editor")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ChangeRole() error = %v, want ErrUserNotFound", err)
	}
}
