// Package session holds the identity a set of views works for and tells
// them when it changes.
package session

import (
	"errors"
	"sync"
)

var ErrNotSignedIn = errors.New("not signed in")

type User struct {
	UID   string
	Email string
}

// Session is passed explicitly to every view. The zero value is not
// usable; call New.
type Session struct {
	mu       sync.Mutex
	user     *User
	watchers map[int]func(*User)
	nextID   int
}

func New() *Session {
	return &Session{watchers: make(map[int]func(*User))}
}

func (s *Session) SignIn(user User) {
	s.set(&user)
}

func (s *Session) SignOut() {
	s.set(nil)
}

// Current returns a copy of the signed-in user.
func (s *Session) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// UID returns the signed-in uid or ErrNotSignedIn.
func (s *Session) UID() (string, error) {
	user, ok := s.Current()
	if !ok {
		return "", ErrNotSignedIn
	}
	return user.UID, nil
}

// Watch calls fn with the current identity (nil when signed out) and
// again on every sign-in or sign-out. The returned func unregisters fn and
// is safe to call more than once.
func (s *Session) Watch(fn func(*User)) (unwatch func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	current := s.user
	s.mu.Unlock()

	fn(copyUser(current))

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) set(user *User) {
	s.mu.Lock()
	if sameUser(s.user, user) {
		s.mu.Unlock()
		return
	}
	s.user = user
	fns := make([]func(*User), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(copyUser(user))
	}
}

func sameUser(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
