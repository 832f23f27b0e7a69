// Package session holds the process-wide authentication state and keeps its
// durable part in sync with storage.
package session

import (
	"context"
	"log"
	"sync"

	"roombook-client/internal/gateway"
	"roombook-client/internal/model"
	"roombook-client/internal/notification"
	"roombook-client/internal/validation"
)

// State is a snapshot of the session.
type State struct {
	User            *model.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Authenticator performs login and registration against the backend.
type Authenticator interface {
	Login(ctx context.Context, in model.LoginInput) (model.AuthResult, error)
	Register(ctx context.Context, in model.RegisterInput) (model.AuthResult, error)
}

// Persister stores the durable part of the session.
type Persister interface {
	Save(ctx context.Context, auth model.PersistedAuth) error
	Load(ctx context.Context) (model.PersistedAuth, bool, error)
	Clear(ctx context.Context) error
}

// Store is the session. The lock is not held across network calls, so when
// two logins overlap the one that answers last wins.
type Store struct {
	auth    Authenticator
	persist Persister
	notify  notification.Notifier

	mu    sync.Mutex
	state State
}

// NewStore creates an anonymous session. persist and notify may be nil.
func NewStore(auth Authenticator, persist Persister, notify notification.Notifier) *Store {
	if notify == nil {
		notify = notification.Discard
	}
	return &Store{auth: auth, persist: persist, notify: notify}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.state.User)
}

// Login authenticates with the backend. Failures are recorded in the
// returned state rather than returned as errors.
func (s *Store) Login(ctx context.Context, in model.LoginInput) State {
	if err := validation.Login(in); err != nil {
		return s.fail("Login failed", err.Error())
	}

	s.begin()
	res, err := s.auth.Login(ctx, in)
	if err != nil {
		log.Printf("Login for %q failed: %v", in.Username, err)
		return s.fail("Login failed", errorMessage(err, "Invalid credentials. Please try again."))
	}

	st := s.authenticate(ctx, res)
	log.Printf("Logged in as %q (%s)", st.User.Username, st.User.Role)
	return st
}

// Register creates an account and logs into it. Failures are recorded in the
// returned state rather than returned as errors.
func (s *Store) Register(ctx context.Context, in model.RegisterInput) State {
	if err := validation.Register(in); err != nil {
		return s.fail("Registration failed", err.Error())
	}

	s.begin()
	res, err := s.auth.Register(ctx, in)
	if err != nil {
		log.Printf("Registration for %q failed: %v", in.Username, err)
		return s.fail("Registration failed", errorMessage(err, "An error occurred while creating the account."))
	}

	st := s.authenticate(ctx, res)
	log.Printf("Registered %q (%s)", st.User.Username, st.User.Role)
	s.notify.Notify(notification.Success("Registration successful", "Your account has been created."))
	return st
}

// Logout clears the session and the stored copy. Calling it while logged out
// is harmless.
func (s *Store) Logout() {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Clear(context.Background()); err != nil {
			log.Printf("Failed to clear stored session: %v", err)
		}
	}
	log.Println("Logged out")
}

// SetUser replaces the user. A nil user marks the session unauthenticated.
func (s *Store) SetUser(user *model.User) {
	s.mu.Lock()
	s.state.User = copyUser(user)
	s.state.IsAuthenticated = user != nil
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.save(context.Background(), st)
}

// SetTokens replaces the bearer token.
func (s *Store) SetTokens(token string) {
	s.mu.Lock()
	s.state.Token = token
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.save(context.Background(), st)
}

// Restore loads the stored session. A stored token that has already expired
// leaves the session logged out and wipes the record.
func (s *Store) Restore(ctx context.Context) State {
	if s.persist == nil {
		return s.Snapshot()
	}

	stored, found, err := s.persist.Load(ctx)
	if err != nil {
		log.Printf("Ignoring stored session: %v", err)
		s.wipe(ctx)
		return s.Snapshot()
	}
	if !found {
		return s.Snapshot()
	}

	st := Hydrate(stored)
	if st.Token != "" && TokenExpired(st.Token, timeNow()) {
		log.Println("Stored session token has expired")
		s.wipe(ctx)
		return s.Snapshot()
	}

	s.mu.Lock()
	s.state = st
	st = s.snapshotLocked()
	s.mu.Unlock()

	if st.User != nil {
		log.Printf("Restored session for %q", st.User.Username)
	}
	return st
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *Store) fail(title, message string) State {
	s.mu.Lock()
	s.state.IsLoading = false
	s.state.Error = message
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.notify.Notify(notification.Failure(title, message))
	return st
}

func (s *Store) authenticate(ctx context.Context, res model.AuthResult) State {
	user := res.User
	s.mu.Lock()
	s.state = State{
		User:            &user,
		Token:           res.Token,
		IsAuthenticated: true,
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.save(ctx, st)
	return st
}

func (s *Store) save(ctx context.Context, st State) {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(ctx, Partialize(st)); err != nil {
		log.Printf("Failed to store session: %v", err)
	}
}

func (s *Store) wipe(ctx context.Context) {
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	if err := s.persist.Clear(ctx); err != nil {
		log.Printf("Failed to clear stored session: %v", err)
	}
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.User = copyUser(s.state.User)
	return st
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func errorMessage(err error, fallback string) string {
	if msg := gateway.Message(err); msg != "" {
		return msg
	}
	return fallback
}
