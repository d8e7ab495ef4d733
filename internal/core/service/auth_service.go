package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/smarthomeo/fxclient/internal/core/domain"
	"github.com/smarthomeo/fxclient/internal/core/ports"
)

const defaultLoginPath = "/login"

// AuthService orchestrates the authentication lifecycle: the one-time startup
// bootstrap, login/register/logout, and the reaction to unauthorized
// responses. It is the only component that mutates the session slot, and the
// mutex serializes every mutating operation so a late verify response can
// never overwrite the slot after a logout.
type AuthService struct {
	mu        sync.Mutex
	state     domain.AuthState
	api       ports.AuthAPI
	profile   ports.ProfileAPI
	sessions  ports.SessionRepository
	nav       ports.Navigator
	loginPath string
	log       zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, profile ports.ProfileAPI, sessions ports.SessionRepository, nav ports.Navigator, loginPath string, log zerolog.Logger) *AuthService {
	if loginPath == "" {
		loginPath = defaultLoginPath
	}
	return &AuthService{
		state:     domain.StateLoading,
		api:       api,
		profile:   profile,
		sessions:  sessions,
		nav:       nav,
		loginPath: loginPath,
		log:       log,
	}
}

// State returns the current lifecycle state.
func (s *AuthService) State() domain.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticated reports whether the machine has settled in the
// authenticated state.
func (s *AuthService) Authenticated() bool {
	return s.State() == domain.StateAuthenticated
}

// Bootstrap reconciles the persisted session slot with the server. It runs
// once per process start and always resolves the Loading state: every failure
// path (empty slot, network error, rejected session) downgrades to
// unauthenticated and clears the slot rather than surfacing an error.
func (s *AuthService) Bootstrap(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateLoading {
		return s.state == domain.StateAuthenticated
	}

	stored, err := s.sessions.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session load failed")
	}
	if stored == nil {
		s.transition(domain.StateUnauthenticated)
		return false
	}

	user, err := s.api.Verify(ctx)
	if err != nil || user == nil {
		s.log.Debug().Err(err).Msg("session verification failed")
		s.clearSlot(ctx)
		s.transition(domain.StateUnauthenticated)
		return false
	}

	if err := s.saveSlot(ctx, domain.NewSession(*user)); err != nil {
		s.clearSlot(ctx)
		s.transition(domain.StateUnauthenticated)
		return false
	}

	s.transition(domain.StateAuthenticated)
	return true
}

// Login authenticates against the backend and, on success, replaces the
// session slot wholesale and settles the machine in the authenticated state.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.api.Login(ctx, phone, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, user)
}

// Register creates an account and adopts the returned identity as the
// current session, exactly as a successful login would.
func (s *AuthService) Register(ctx context.Context, username, phone, password, referralCode string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.api.Register(ctx, username, phone, password, referralCode)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, user)
}

// Logout tears down the local slot first, then asks the server to end the
// session. The local teardown is unconditional: a failed server call never
// leaves a live slot behind.
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSlot(ctx)
	if s.state == domain.StateAuthenticated {
		s.transition(domain.StateUnauthenticated)
	}

	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server-side logout failed")
		return err
	}
	return nil
}

// RefreshProfile re-reads the profile from the server and overwrites the
// session slot with the response, so screens reading the slot see current
// balances. The write is skipped once the machine has left the authenticated
// state: a slow read must not resurrect a slot a logout already cleared.
func (s *AuthService) RefreshProfile(ctx context.Context) (*domain.UserInfo, error) {
	user, err := s.profile.Profile(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateAuthenticated {
		if err := s.saveSlot(ctx, domain.NewSession(*user)); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// HandleUnauthorized reacts to an ErrAuthenticationRequired surfaced by any
// API call: clear the slot, downgrade the state, and send the visitor to the
// login entry point with history replaced.
func (s *AuthService) HandleUnauthorized(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSlot(ctx)
	if s.state == domain.StateAuthenticated {
		s.transition(domain.StateUnauthenticated)
	}
	s.nav.Replace(s.loginPath)
}

// adopt normalizes and persists a server-supplied identity. The state moves
// to authenticated only after the slot is written, so the authenticated
// signal can never be true while the slot is empty.
func (s *AuthService) adopt(ctx context.Context, user *domain.UserInfo) (*domain.Session, error) {
	sess := domain.NewSession(*user)
	if err := s.saveSlot(ctx, sess); err != nil {
		return nil, err
	}
	if s.state != domain.StateAuthenticated {
		s.transition(domain.StateAuthenticated)
	}
	return sess, nil
}

func (s *AuthService) saveSlot(ctx context.Context, sess *domain.Session) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Error().Err(err).Msg("session save failed")
		return err
	}
	return nil
}

func (s *AuthService) clearSlot(ctx context.Context) {
	if err := s.sessions.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("session clear failed")
	}
}

// transition applies a state change, tolerating self-transitions and logging
// anything the table forbids instead of applying it.
func (s *AuthService) transition(next domain.AuthState) {
	if s.state == next {
		return
	}
	if !s.state.CanTransitionTo(next) {
		s.log.Error().
			Str("from", string(s.state)).
			Str("to", string(next)).
			Msg("invalid auth state transition")
		return
	}
	s.state = next
}
