package auth

import "github.com/FACorreiaa/techblog/internal/app/models"

// State of the session lifecycle.
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateUnauthenticated:
		return "UNAUTHENTICATED"
	}
	return "UNKNOWN"
}

// Snapshot is a copy of the session at one point in time.
type Snapshot struct {
	State State
	User  *models.User
}

// Initializing reports whether the first restore has not finished yet.
func (s Snapshot) Initializing() bool { return s.State == StateInitializing }
