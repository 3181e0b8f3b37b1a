package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	pkgcrypto "github.com/gamelog-dev/gamelog/internal/crypto"
	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
	"github.com/gamelog-dev/gamelog/internal/repository"
)

type fakeUsers struct {
	users  map[int64]*model.User
	creds  map[int64]*model.Credential
	nextID int64

	createErr error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users: map[int64]*model.User{},
		creds: map[int64]*model.Credential{},
	}
}

func (f *fakeUsers) CreateWithCredential(_ context.Context, u *model.User, c *model.Credential) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, ex := range f.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return 0, errs.ErrAlreadyExists
		}
	}
	f.nextID++
	uc := *u
	uc.ID = f.nextID
	f.users[uc.ID] = &uc
	cc := *c
	cc.UserID = uc.ID
	f.creds[uc.ID] = &cc
	return uc.ID, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetCredential(_ context.Context, userID int64) (*model.Credential, error) {
	c, ok := f.creds[userID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (f *fakeUsers) SetSteamID(_ context.Context, userID int64, steamID string) error {
	if _, ok := f.users[userID]; !ok {
		return errs.ErrNotFound
	}
	for id, u := range f.users {
		if id != userID && u.SteamID == steamID {
			return errs.ErrAlreadyExists
		}
	}
	f.users[userID].SteamID = steamID
	return nil
}

func TestAuth_Signup_Basics(t *testing.T) {
	t.Parallel()
	users := newFakeUsers()
	s := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	if _, err := s.Signup(ctx, "", "", ""); err == nil {
		t.Fatalf("want validation error on empty fields")
	}

	id, err := s.Signup(ctx, "alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if id == 0 {
		t.Fatalf("zero user id")
	}

	cred := users.creds[id]
	if cred == nil {
		t.Fatalf("no credential stored with user")
	}
	if len(cred.Salt) != pkgcrypto.SaltLen {
		t.Fatalf("salt length = %d, want %d", len(cred.Salt), pkgcrypto.SaltLen)
	}
	if string(cred.PasswordHash) == "pw1" || len(cred.PasswordHash) == 0 {
		t.Fatalf("password stored unhashed or empty")
	}

	if _, err := s.Signup(ctx, "alice", "other@x.com", "pw2"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists on duplicate username, got %v", err)
	}
	if _, err := s.Signup(ctx, "alice2", "a@x.com", "pw2"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists on duplicate email, got %v", err)
	}

	users.createErr = errors.New("boom")
	if _, err := s.Signup(ctx, "bob", "b@x.com", "pw"); err == nil {
		t.Fatalf("want propagated repo error")
	}
}

func TestAuth_Login_UsernameAndEmailResolveSameUser(t *testing.T) {
	t.Parallel()
	users := newFakeUsers()
	s := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	id, err := s.Signup(ctx, "alice", "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	byName, err := s.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login by username: %v", err)
	}
	byEmail, err := s.Login(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login by email: %v", err)
	}
	if byName != id || byEmail != id {
		t.Fatalf("Login ids = %d/%d, want %d", byName, byEmail, id)
	}
}

func TestAuth_Login_UniformFailureKind(t *testing.T) {
	t.Parallel()
	users := newFakeUsers()
	s := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	if _, err := s.Signup(ctx, "alice", "a@x.com", "pw1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// Unknown identifier and wrong password must be indistinguishable.
	_, errUnknown := s.Login(ctx, "nobody", "pw1")
	_, errWrongPw := s.Login(ctx, "alice", "pw2")
	if !errors.Is(errUnknown, errs.ErrInvalidCredentials) {
		t.Fatalf("unknown identifier: want ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, errs.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", errWrongPw)
	}

	// A one-character password change fails the same way.
	if _, err := s.Login(ctx, "alice", "pw1 "); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("near-miss password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(ctx, "", ""); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("empty input: want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_LinkSteamID(t *testing.T) {
	t.Parallel()
	users := newFakeUsers()
	s := NewAuthService(users, zap.NewNop())
	ctx := context.Background()

	a, _ := s.Signup(ctx, "alice", "a@x.com", "pw1")
	b, _ := s.Signup(ctx, "bob", "b@x.com", "pw2")

	if err := s.LinkSteamID(ctx, 0, "x"); err == nil {
		t.Fatalf("want validation error on zero user id")
	}
	if err := s.LinkSteamID(ctx, a, ""); err == nil {
		t.Fatalf("want validation error on empty steam id")
	}

	if err := s.LinkSteamID(ctx, a, "76561197976392138"); err != nil {
		t.Fatalf("LinkSteamID: %v", err)
	}
	if err := s.LinkSteamID(ctx, b, "76561197976392138"); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists for already-linked account, got %v", err)
	}
}
