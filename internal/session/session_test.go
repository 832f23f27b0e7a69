package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombook-client/internal/gateway"
	"roombook-client/internal/model"
	"roombook-client/internal/notification"
)

type mockAuth struct {
	LoginFunc    func(ctx context.Context, in model.LoginInput) (model.AuthResult, error)
	RegisterFunc func(ctx context.Context, in model.RegisterInput) (model.AuthResult, error)
}

func (m *mockAuth) Login(ctx context.Context, in model.LoginInput) (model.AuthResult, error) {
	return m.LoginFunc(ctx, in)
}

func (m *mockAuth) Register(ctx context.Context, in model.RegisterInput) (model.AuthResult, error) {
	return m.RegisterFunc(ctx, in)
}

type memoryPersister struct {
	mu      sync.Mutex
	record  *model.PersistedAuth
	loadErr error
	saves   int
	clears  int
}

func (m *memoryPersister) Save(_ context.Context, auth model.PersistedAuth) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = &auth
	m.saves++
	return nil
}

func (m *memoryPersister) Load(context.Context) (model.PersistedAuth, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return model.PersistedAuth{}, false, m.loadErr
	}
	if m.record == nil {
		return model.PersistedAuth{}, false, nil
	}
	return *m.record, true, nil
}

func (m *memoryPersister) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	m.clears++
	return nil
}

type recordingNotifier struct {
	got []notification.Notification
}

func (r *recordingNotifier) Notify(n notification.Notification) {
	r.got = append(r.got, n)
}

func adminResult() model.AuthResult {
	return model.AuthResult{
		User:  model.User{ID: 1, Username: "admin1", Email: "admin1@example.com", Role: model.RoleAdmin},
		Token: "t1",
	}
}

func TestStore_LoginSuccess(t *testing.T) {
	persist := &memoryPersister{}
	s := NewStore(&mockAuth{
		LoginFunc: func(_ context.Context, in model.LoginInput) (model.AuthResult, error) {
			assert.Equal(t, "admin1", in.Username)
			assert.Equal(t, "secret1", in.Password)
			return adminResult(), nil
		},
	}, persist, nil)

	st := s.Login(context.Background(), model.LoginInput{Username: "admin1", Password: "secret1"})

	require.NotNil(t, st.User)
	assert.Equal(t, "admin1", st.User.Username)
	assert.Equal(t, model.RoleAdmin, st.User.Role)
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	assert.Equal(t, "t1", s.Token())

	require.NotNil(t, persist.record)
	assert.Equal(t, "t1", persist.record.Tokens)
	assert.True(t, persist.record.IsAuthenticated)
}

func TestStore_LoginFailureThenSuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	fail := true
	s := NewStore(&mockAuth{
		LoginFunc: func(context.Context, model.LoginInput) (model.AuthResult, error) {
			if fail {
				return model.AuthResult{}, &gateway.APIError{StatusCode: 401, Message: "Bad credentials"}
			}
			return adminResult(), nil
		},
	}, nil, notifier)

	st := s.Login(context.Background(), model.LoginInput{Username: "admin1", Password: "wrong-pass"})
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Equal(t, "Bad credentials", st.Error)
	assert.False(t, st.IsLoading)
	require.Len(t, notifier.got, 1)
	assert.Equal(t, notification.LevelError, notifier.got[0].Level)
	assert.Equal(t, "Bad credentials", notifier.got[0].Description)

	fail = false
	st = s.Login(context.Background(), model.LoginInput{Username: "admin1", Password: "secret1"})
	assert.True(t, st.IsAuthenticated)
	assert.Empty(t, st.Error)
}

func TestStore_LoginFailureKeepsExistingSession(t *testing.T) {
	calls := 0
	s := NewStore(&mockAuth{
		LoginFunc: func(context.Context, model.LoginInput) (model.AuthResult, error) {
			calls++
			if calls == 1 {
				return adminResult(), nil
			}
			return model.AuthResult{}, errors.New("boom")
		},
	}, nil, nil)

	s.Login(context.Background(), model.LoginInput{Username: "admin1", Password: "secret1"})
	st := s.Login(context.Background(), model.LoginInput{Username: "admin1", Password: "secret1"})

	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "t1", st.Token)
	assert.Equal(t, "boom", st.Error)
}

func TestStore_LoginInvalidInputSkipsBackend(t *testing.T) {
	s := NewStore(&mockAuth{
		LoginFunc: func(context.Context, model.LoginInput) (model.AuthResult, error) {
			t.Fatal("backend must not be called")
			return model.AuthResult{}, nil
		},
	}, nil, nil)

	st := s.Login(context.Background(), model.LoginInput{Username: "", Password: "123"})
	assert.False(t, st.IsAuthenticated)
	assert.Contains(t, st.Error, "username")
	assert.Contains(t, st.Error, "password")
}

func TestStore_LoginSetsLoadingWhileInFlight(t *testing.T) {
	var s *Store
	s = NewStore(&mockAuth{
		LoginFunc: func(context.Context, model.LoginInput) (model.AuthResult, error) {
			st := s.Snapshot()
			assert.True(t, st.IsLoading)
			assert.Empty(t, st.Error)
			return adminResult(), nil
		},
	}, nil, nil)

	st := s.Login(context.Background(), model.LoginInput{Username: "admin1", Password: "secret1"})
	assert.False(t, st.IsLoading)
}

func TestStore_Register(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewStore(&mockAuth{
		RegisterFunc: func(_ context.Context, in model.RegisterInput) (model.AuthResult, error) {
			return model.AuthResult{
				User:  model.User{ID: 7, Username: in.Username, Email: in.Email, Role: model.RoleUser},
				Token: "t7",
			}, nil
		},
	}, nil, notifier)

	st := s.Register(context.Background(), model.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})

	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, int64(7), st.User.ID)
	require.Len(t, notifier.got, 1)
	assert.Equal(t, notification.LevelSuccess, notifier.got[0].Level)
}

func TestStore_RegisterFailure(t *testing.T) {
	s := NewStore(&mockAuth{
		RegisterFunc: func(context.Context, model.RegisterInput) (model.AuthResult, error) {
			return model.AuthResult{}, &gateway.APIError{StatusCode: 400, Details: []string{"Username already exists"}}
		},
	}, nil, nil)

	st := s.Register(context.Background(), model.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	assert.False(t, st.IsAuthenticated)
	assert.Equal(t, "Username already exists", st.Error)
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	persist := &memoryPersister{}
	s := NewStore(&mockAuth{}, persist, nil)

	s.Logout()
	st := s.Snapshot()
	assert.Nil(t, st.User)
	assert.Empty(t, st.Token)
	assert.False(t, st.IsAuthenticated)

	s.Logout()
	assert.Equal(t, 2, persist.clears)
}

func TestStore_LogoutClearsSession(t *testing.T) {
	persist := &memoryPersister{}
	s := NewStore(&mockAuth{
		LoginFunc: func(context.Context, model.LoginInput) (model.AuthResult, error) { return adminResult(), nil },
	}, persist, nil)

	s.Login(context.Background(), model.LoginInput{Username: "admin1", Password: "secret1"})
	s.Logout()

	assert.Equal(t, State{}, s.Snapshot())
	assert.Nil(t, persist.record)
}

func TestStore_Setters(t *testing.T) {
	persist := &memoryPersister{}
	s := NewStore(&mockAuth{}, persist, nil)

	s.SetUser(&model.User{ID: 2, Username: "carol", Role: model.RoleUser})
	assert.True(t, s.Snapshot().IsAuthenticated)

	s.SetTokens("abc")
	assert.Equal(t, "abc", s.Token())
	assert.Equal(t, "abc", persist.record.Tokens)

	s.SetUser(nil)
	assert.False(t, s.Snapshot().IsAuthenticated)
	assert.Nil(t, s.User())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(&mockAuth{}, nil, nil)
	s.SetUser(&model.User{Username: "carol"})

	st := s.Snapshot()
	st.User.Username = "mallory"
	assert.Equal(t, "carol", s.User().Username)
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestStore_Restore(t *testing.T) {
	user := &model.User{ID: 1, Username: "admin1", Role: model.RoleAdmin}

	testCases := []struct {
		name       string
		record     *model.PersistedAuth
		loadErr    error
		wantAuthed bool
		wantClears int
	}{
		{name: "nothing stored"},
		{
			name:       "opaque token",
			record:     &model.PersistedAuth{User: user, Tokens: "t1", IsAuthenticated: true},
			wantAuthed: true,
		},
		{
			name:       "live jwt",
			record:     &model.PersistedAuth{User: user, Tokens: signed(t, time.Now().Add(time.Hour)), IsAuthenticated: true},
			wantAuthed: true,
		},
		{
			name:       "expired jwt",
			record:     &model.PersistedAuth{User: user, Tokens: signed(t, time.Now().Add(-time.Hour)), IsAuthenticated: true},
			wantClears: 1,
		},
		{
			name:       "unreadable record",
			loadErr:    errors.New("corrupt"),
			wantClears: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			persist := &memoryPersister{record: tc.record, loadErr: tc.loadErr}
			s := NewStore(&mockAuth{}, persist, nil)

			st := s.Restore(context.Background())
			assert.Equal(t, tc.wantAuthed, st.IsAuthenticated)
			assert.Equal(t, tc.wantClears, persist.clears)
			assert.False(t, st.IsLoading)
			assert.Empty(t, st.Error)
			if tc.wantAuthed {
				assert.Equal(t, "admin1", st.User.Username)
				assert.Equal(t, tc.record.Tokens, s.Token())
			}
		})
	}
}

func TestPartializeHydrate(t *testing.T) {
	st := State{
		User:            &model.User{ID: 1, Username: "admin1"},
		Token:           "t1",
		IsAuthenticated: true,
		IsLoading:       true,
		Error:           "stale",
	}

	p := Partialize(st)
	assert.Equal(t, "t1", p.Tokens)
	assert.True(t, p.IsAuthenticated)

	back := Hydrate(p)
	assert.Equal(t, st.User, back.User)
	assert.Equal(t, st.Token, back.Token)
	assert.False(t, back.IsLoading)
	assert.Empty(t, back.Error)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, TokenExpired("t1", now))
	assert.False(t, TokenExpired(signed(t, now.Add(time.Minute)), now))
	assert.True(t, TokenExpired(signed(t, now.Add(-time.Minute)), now))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, TokenExpired(noExp, now))
}
