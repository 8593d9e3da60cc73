// Package identity supplies the current account session to the rest of
// the app. Authentication itself is delegated to an external provider;
// this package only models the session value and change notifications.
package identity

import (
	"errors"
	"sync"
)

var ErrUnauthenticated = errors.New("not authenticated")

// Session is the current identity context: a guest (zero value) or a
// specific account.
type Session struct {
	UserID string
}

var Guest = Session{}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Provider notifies subscribers of session transitions (login, logout,
// app-start resolution).
type Provider interface {
	Current() Session
	Subscribe(fn func(Session)) (cancel func())
}

// MemoryProvider is an in-process Provider driven by Login/Logout.
type MemoryProvider struct {
	mu      sync.Mutex
	current Session
	subs    map[int]func(Session)
	nextID  int
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{subs: make(map[int]func(Session))}
}

func (p *MemoryProvider) Current() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *MemoryProvider) Subscribe(fn func(Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *MemoryProvider) Login(userID string) {
	p.set(Session{UserID: userID})
}

func (p *MemoryProvider) Logout() {
	p.set(Guest)
}

func (p *MemoryProvider) set(s Session) {
	p.mu.Lock()
	p.current = s
	fns := make([]func(Session), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
