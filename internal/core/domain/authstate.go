package domain

// AuthState represents the lifecycle state of the client's authentication.
type AuthState string

const (
	StateLoading         AuthState = "loading"
	StateAuthenticated   AuthState = "authenticated"
	StateUnauthenticated AuthState = "unauthenticated"
)

// validTransitions defines the allowed state machine transitions. The machine
// starts in StateLoading and has no terminal state: it lives as long as the
// process does, flipping between authenticated and unauthenticated on login,
// logout and unauthorized responses.
var validTransitions = map[AuthState][]AuthState{
	StateLoading:         {StateAuthenticated, StateUnauthenticated},
	StateAuthenticated:   {StateUnauthenticated},
	StateUnauthenticated: {StateAuthenticated},
}

// CanTransitionTo reports whether a transition from the current state to next is valid.
func (s AuthState) CanTransitionTo(next AuthState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
