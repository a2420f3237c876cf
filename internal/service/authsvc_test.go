package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"friendfeed/internal/auth"
	"friendfeed/internal/domain"
)

type stubUsersStore struct {
	t *testing.T

	createUserFunc     func(context.Context, string, string, string) (domain.User, error)
	getUserByIDFunc    func(context.Context, string) (domain.User, error)
	getUserByEmailFunc func(context.Context, string) (domain.UserWithPassword, error)
	updateProfileFunc  func(context.Context, string, domain.ProfileUpdate) (domain.User, error)
	setImageFileFunc   func(context.Context, string, string) error
	setLastLoginFunc   func(context.Context, string, time.Time) error
}

func (s *stubUsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	if s.createUserFunc != nil {
		return s.createUserFunc(ctx, email, username, passwordHash)
	}
	s.t.Fatalf("CreateUser called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getUserByIDFunc != nil {
		return s.getUserByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetUserByID called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	if s.getUserByEmailFunc != nil {
		return s.getUserByEmailFunc(ctx, email)
	}
	s.t.Fatalf("GetUserByEmail called unexpectedly")
	return domain.UserWithPassword{}, errors.New("unexpected call")
}

func (s *stubUsersStore) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	if s.updateProfileFunc != nil {
		return s.updateProfileFunc(ctx, userID, upd)
	}
	s.t.Fatalf("UpdateProfile called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) SetImageFile(ctx context.Context, userID, imageFile string) error {
	if s.setImageFileFunc != nil {
		return s.setImageFileFunc(ctx, userID, imageFile)
	}
	s.t.Fatalf("SetImageFile called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubUsersStore) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	if s.setLastLoginFunc != nil {
		return s.setLastLoginFunc(ctx, userID, when)
	}
	s.t.Fatalf("SetLastLogin called unexpectedly")
	return errors.New("unexpected call")
}

type stubSessionsStore struct {
	t *testing.T

	createSessionFunc func(context.Context, string, time.Time, string, string) (string, error)
	getSessionFunc    func(context.Context, string) (domain.Session, error)
	revokeSessionFunc func(context.Context, string, time.Time) error
}

func (s *stubSessionsStore) CreateSession(ctx context.Context, userID string, expiresAt time.Time, ip, userAgent string) (string, error) {
	if s.createSessionFunc != nil {
		return s.createSessionFunc(ctx, userID, expiresAt, ip, userAgent)
	}
	s.t.Fatalf("CreateSession called unexpectedly")
	return "", errors.New("unexpected call")
}

func (s *stubSessionsStore) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	if s.getSessionFunc != nil {
		return s.getSessionFunc(ctx, sessionID)
	}
	s.t.Fatalf("GetSession called unexpectedly")
	return domain.Session{}, errors.New("unexpected call")
}

func (s *stubSessionsStore) RevokeSession(ctx context.Context, sessionID string, when time.Time) error {
	if s.revokeSessionFunc != nil {
		return s.revokeSessionFunc(ctx, sessionID, when)
	}
	s.t.Fatalf("RevokeSession called unexpectedly")
	return errors.New("unexpected call")
}

func TestRegisterHashesPasswordAndNormalizes(t *testing.T) {
	var gotEmail, gotUsername, gotHash string
	users := &stubUsersStore{
		t: t,
		createUserFunc: func(_ context.Context, email, username, passwordHash string) (domain.User, error) {
			gotEmail, gotUsername, gotHash = email, username, passwordHash
			return domain.User{ID: "u1", Email: email, Username: username}, nil
		},
	}

	svc := &AuthService{Users: users}
	u, err := svc.Register(context.Background(), "  Alice@Example.COM ", " alice ", "long enough password")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("unexpected user: %#v", u)
	}
	if gotEmail != "alice@example.com" || gotUsername != "alice" {
		t.Fatalf("normalization: got %q %q", gotEmail, gotUsername)
	}
	if gotHash == "long enough password" || !strings.HasPrefix(gotHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", gotHash)
	}
}

func TestLoginSuccessCreatesSession(t *testing.T) {
	hash, err := auth.HashPassword("open sesame please")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	users := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, email string) (domain.UserWithPassword, error) {
			if email != "bob@example.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return domain.UserWithPassword{
				User:         domain.User{ID: "u2", Email: email, Username: "bob"},
				PasswordHash: hash,
			}, nil
		},
		setLastLoginFunc: func(_ context.Context, userID string, when time.Time) error {
			if userID != "u2" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return nil
		},
	}
	sessions := &stubSessionsStore{
		t: t,
		createSessionFunc: func(_ context.Context, userID string, expiresAt time.Time, ip, userAgent string) (string, error) {
			if userID != "u2" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			if !expiresAt.Equal(now.Add(24 * time.Hour)) {
				t.Fatalf("unexpected expiry: %s", expiresAt)
			}
			return "sess-1", nil
		},
	}

	svc := &AuthService{
		Users:      users,
		Sessions:   sessions,
		SessionTTL: 24 * time.Hour,
		Now:        func() time.Time { return now },
	}

	u, sessID, err := svc.Login(context.Background(), "Bob@Example.com", "open sesame please", "1.2.3.4", "test-agent")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != "u2" || sessID != "sess-1" {
		t.Fatalf("unexpected result: %#v %s", u, sessID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("the right password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	users := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{
				User:         domain.User{ID: "u2"},
				PasswordHash: hash,
			}, nil
		},
	}

	svc := &AuthService{Users: users}
	_, _, err = svc.Login(context.Background(), "bob@example.com", "the wrong password", "", "")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailMapsToInvalidCredentials(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(_ context.Context, _ string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		},
	}

	svc := &AuthService{Users: users}
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever", "", "")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGetUserForSessionExpiredMapsToUnauthorized(t *testing.T) {
	sessions := &stubSessionsStore{
		t: t,
		getSessionFunc: func(_ context.Context, _ string) (domain.Session, error) {
			return domain.Session{}, domain.ErrNotFound
		},
	}

	svc := &AuthService{Sessions: sessions}
	_, err := svc.GetUserForSession(context.Background(), "stale")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
