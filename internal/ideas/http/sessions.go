package http

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seniordesign-sys/ideagen-backend/internal/ideas/service"
)

// WizardFactory builds a fresh wizard for a new session.
type WizardFactory func(ctx context.Context) *service.Wizard

type session struct {
	wizard   *service.Wizard
	lastSeen time.Time
}

// SessionRegistry keeps one wizard per browser session, keyed by a random id.
type SessionRegistry struct {
	newWizard WizardFactory
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionRegistry(newWizard WizardFactory) *SessionRegistry {
	return &SessionRegistry{
		newWizard: newWizard,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

func (r *SessionRegistry) Create(ctx context.Context) (string, *service.Wizard) {
	id := uuid.NewString()
	w := r.newWizard(ctx)

	r.mu.Lock()
	r.sessions[id] = &session{wizard: w, lastSeen: r.now()}
	r.mu.Unlock()
	return id, w
}

// Get returns the session's wizard and marks the session as active.
func (r *SessionRegistry) Get(id string) (*service.Wizard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = r.now()
	return s.wizard, true
}

// Delete cancels any running generation of the session and forgets it.
func (r *SessionRegistry) Delete(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.wizard.Cancel()
	}
	return ok
}

// Sweep evicts sessions idle for longer than idle and returns how many went.
func (r *SessionRegistry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var evicted []*service.Wizard
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			evicted = append(evicted, s.wizard)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, w := range evicted {
		w.Cancel()
	}
	return len(evicted)
}

// ResetAll sends every live session back to the first step.
func (r *SessionRegistry) ResetAll(ctx context.Context) {
	r.mu.Lock()
	wizards := make([]*service.Wizard, 0, len(r.sessions))
	for _, s := range r.sessions {
		wizards = append(wizards, s.wizard)
	}
	r.mu.Unlock()

	for _, w := range wizards {
		w.StartNew(ctx)
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
