// Package session holds the per-app-session state that outlives individual
// reports: the signed-in rider's name and the shared location fix. "Sign-in"
// stores a name in memory only; there are no accounts.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ronaldwopara/lrt-buddies-app/internal/clock"
	"github.com/ronaldwopara/lrt-buddies-app/internal/location"
)

// GuestName stands in when no name was entered.
const GuestName = "Guest"

// Session is the in-memory app session. Safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	userName string

	clock    clock.Clock
	location *location.Store
}

// New creates an anonymous session.
func New(clk clock.Clock) *Session {
	return &Session{clock: clk, location: &location.Store{}}
}

// SignIn records the rider's display name.
func (s *Session) SignIn(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userName = strings.TrimSpace(name)
}

// UserName returns the full name entered at sign-in, empty for guests.
func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

// FirstName returns the first word of the rider's name, or GuestName.
func (s *Session) FirstName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields := strings.Fields(s.userName)
	if len(fields) == 0 {
		return GuestName
	}
	return fields[0]
}

// Location returns the session's shared location store.
func (s *Session) Location() *location.Store {
	return s.location
}

// Daypart names the current part of the day for the home screen greeting.
func (s *Session) Daypart() string {
	hour := s.clock.Now().Hour()
	switch {
	case hour < 5:
		return "Night"
	case hour < 12:
		return "Morning"
	case hour < 17:
		return "Afternoon"
	case hour < 21:
		return "Evening"
	default:
		return "Night"
	}
}

// Greeting renders the personalized home screen greeting.
func (s *Session) Greeting() string {
	return fmt.Sprintf("%s %s", s.Daypart(), s.FirstName())
}
