package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stock_dashboard/internal/db"
	"github.com/Skotchmaster/stock_dashboard/internal/events"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
	"github.com/Skotchmaster/stock_dashboard/internal/repo"
	"github.com/Skotchmaster/stock_dashboard/internal/session"
	"github.com/Skotchmaster/stock_dashboard/internal/validation"
)

type fakeLookup struct {
	users []models.User
	err   error
	calls int
}

func (f *fakeLookup) FindByCredentials(_ context.Context, username, password string) ([]models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.User
	for _, u := range f.users {
		if u.Username == username && u.Password == password {
			out = append(out, u)
		}
	}
	if len(out) > 2 {
		out = out[:2]
	}
	return out, nil
}

func demoLookup() *fakeLookup {
	return &fakeLookup{users: []models.User{
		{ID: 7, Username: "user1", Password: "password123", Role: "user"},
		{ID: 8, Username: "admin1", Password: "admin123", Role: "admin"},
	}}
}

func TestAuthenticate_Success(t *testing.T) {
	store := session.NewStore(nil, 0)
	rec := &events.Recorder{}
	a := NewAuthenticator(demoLookup(), store, rec)
	slot := &session.MemorySlot{}

	s, err := a.Authenticate(context.Background(), slot, "user1", "password123")
	require.NoError(t, err)
	assert.Equal(t, session.Session{ID: 7, Username: "user1", Role: session.RoleUser}, s)

	loaded, ok := store.Load(slot)
	require.True(t, ok)
	assert.Equal(t, s, loaded)

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TopicUsers, evs[0].Topic)
	assert.Equal(t, events.UserSignedIn, evs[0].Event.Type)
}

func TestAuthenticate_RejectionKeepsPriorSession(t *testing.T) {
	tests := []struct {
		name     string
		lookup   *fakeLookup
		username string
		password string
	}{
		{name: "zero matches", lookup: demoLookup(), username: "user1", password: "wrong-password"},
		{name: "case sensitive", lookup: demoLookup(), username: "User1", password: "password123"},
		{
			name: "more than one match",
			lookup: &fakeLookup{users: []models.User{
				{ID: 1, Username: "dup", Password: "secret1", Role: "user"},
				{ID: 2, Username: "dup", Password: "secret1", Role: "admin"},
			}},
			username: "dup", password: "secret1",
		},
		{
			name:     "unknown stored role",
			lookup:   &fakeLookup{users: []models.User{{ID: 3, Username: "odd", Password: "secret1", Role: "owner"}}},
			username: "odd", password: "secret1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewStore(nil, 0)
			rec := &events.Recorder{}
			a := NewAuthenticator(tt.lookup, store, rec)
			slot := &session.MemorySlot{}
			prior := session.Session{ID: 99, Username: "someone", Role: session.RoleUser}
			store.Save(context.Background(), slot, prior)

			_, err := a.Authenticate(context.Background(), slot, tt.username, tt.password)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, "Invalid credentials", err.Error())

			got, ok := store.Load(slot)
			require.True(t, ok)
			assert.Equal(t, prior, got)
			assert.Empty(t, rec.Events())
		})
	}
}

func TestAuthenticate_LookupFailure(t *testing.T) {
	store := session.NewStore(nil, 0)
	a := NewAuthenticator(&fakeLookup{err: errors.New("connection refused")}, store, nil)
	slot := &session.MemorySlot{}

	_, err := a.Authenticate(context.Background(), slot, "user1", "password123")
	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "connection refused", err.Error())
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, ok := store.Load(slot)
	assert.False(t, ok)
}

func TestSignOut(t *testing.T) {
	store := session.NewStore(nil, 0)
	rec := &events.Recorder{}
	a := NewAuthenticator(demoLookup(), store, rec)
	slot := &session.MemorySlot{}

	_, err := a.Authenticate(context.Background(), slot, "admin1", "admin123")
	require.NoError(t, err)

	a.SignOut(context.Background(), slot)
	_, ok := store.Load(slot)
	assert.False(t, ok)

	a.SignOut(context.Background(), slot)

	evs := rec.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.UserSignedOut, evs[1].Event.Type)
}

func TestSignInInput_Validation(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		in    SignInInput
		field string
		msg   string
	}{
		{name: "empty username", in: SignInInput{Password: "password123"}, field: "username", msg: "Username is required"},
		{name: "short username", in: SignInInput{Username: "ab", Password: "password123"}, field: "username", msg: "Username must be at least 3 characters"},
		{name: "empty password", in: SignInInput{Username: "user1"}, field: "password", msg: "Password is required"},
		{name: "short password", in: SignInInput{Username: "user1", Password: "12345"}, field: "password", msg: "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr validation.Errors
			require.ErrorAs(t, v.Validate(tt.in), &verr)
			assert.Equal(t, tt.msg, verr[tt.field])
		})
	}

	assert.NoError(t, v.Validate(SignInInput{Username: "user1", Password: "password123"}))
}

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), ":memory:", "")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return repo.New(gdb)
}

func TestSeedDemoUsers_PlainAndIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, SeedDemoUsers(ctx, r, PasswordPlain))
	require.NoError(t, SeedDemoUsers(ctx, r, PasswordPlain))

	a := NewAuthenticator(LookupFor(PasswordPlain, r), session.NewStore(nil, 0), nil)
	s, err := a.Authenticate(ctx, &session.MemorySlot{}, "admin1", "admin123")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, s.Role)
}

func TestBcryptMode(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, SeedDemoUsers(ctx, r, PasswordBcrypt))

	users, err := r.FindByUsername(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.NotEqual(t, "password123", users[0].Password)

	a := NewAuthenticator(LookupFor(PasswordBcrypt, r), session.NewStore(nil, 0), nil)
	s, err := a.Authenticate(ctx, &session.MemorySlot{}, "user1", "password123")
	require.NoError(t, err)
	assert.Equal(t, "user1", s.Username)

	_, err = a.Authenticate(ctx, &session.MemorySlot{}, "user1", "password124")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParsePasswordMode(t *testing.T) {
	m, err := ParsePasswordMode("")
	require.NoError(t, err)
	assert.Equal(t, PasswordPlain, m)

	m, err = ParsePasswordMode("bcrypt")
	require.NoError(t, err)
	assert.Equal(t, PasswordBcrypt, m)

	_, err = ParsePasswordMode("md5")
	assert.Error(t, err)
}
