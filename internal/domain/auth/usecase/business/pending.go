package business

import (
	"sync"
	"time"

	"github.com/royak47/autofor/internal/domain/auth/entities"
)

// PendingStore holds in-flight logins keyed by phone number.
// It does not lock per phone; callers serialize on the phone themselves.
type PendingStore struct {
	mu     sync.Mutex
	logins map[string]*entities.PendingLogin
}

// NewPendingStore creates an empty pending login store
func NewPendingStore() *PendingStore {
	return &PendingStore{logins: make(map[string]*entities.PendingLogin)}
}

// Put stores login and returns the one it replaced, if any
func (s *PendingStore) Put(login *entities.PendingLogin) *entities.PendingLogin {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.logins[login.Phone]
	s.logins[login.Phone] = login
	return previous
}

// Get returns the pending login for phone
func (s *PendingStore) Get(phone string) (*entities.PendingLogin, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	login, ok := s.logins[phone]
	return login, ok
}

// Delete removes login if it is still the one stored for its phone
func (s *PendingStore) Delete(login *entities.PendingLogin) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.logins[login.Phone]; ok && current == login {
		delete(s.logins, login.Phone)
		return true
	}
	return false
}

// Expired returns the phones whose login outlived its TTL
func (s *PendingStore) Expired(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var phones []string
	for phone, login := range s.logins {
		if login.IsExpired(now) {
			phones = append(phones, phone)
		}
	}
	return phones
}

// Drain removes and returns every pending login
func (s *PendingStore) Drain() []*entities.PendingLogin {
	s.mu.Lock()
	defer s.mu.Unlock()

	logins := make([]*entities.PendingLogin, 0, len(s.logins))
	for phone, login := range s.logins {
		logins = append(logins, login)
		delete(s.logins, phone)
	}
	return logins
}

// Count returns the number of pending logins
func (s *PendingStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logins)
}
