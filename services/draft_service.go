// Package services: services/draft_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-facilities-admin/forms"
	"go-facilities-admin/logger"
)

// Draft store errors.
var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrUnknownDraftKind = errors.New("unknown draft kind")
)

// DraftServiceInterface keeps operators' in-progress forms.
type DraftServiceInterface interface {
	Create(owner, kind string) (string, error)
	With(owner, id string, fn func(forms.Draft) error) error
	Discard(owner, id string) bool
	Sweep(idle time.Duration) int
}

type draftEntry struct {
	mu       sync.Mutex
	owner    string
	draft    forms.Draft
	lastSeen time.Time
}

// DraftService is the in-memory DraftServiceInterface.
type DraftService struct {
	mu     sync.Mutex
	drafts map[string]*draftEntry
	now    func() time.Time
}

// NewDraftService creates an empty draft store.
func NewDraftService() *DraftService {
	return &DraftService{drafts: make(map[string]*draftEntry), now: time.Now}
}

// NewDraft builds an empty form of kind.
func NewDraft(kind string) (forms.Draft, error) {
	switch kind {
	case forms.KindMeeting:
		return forms.NewMeetingForm(), nil
	case forms.KindMailInbound:
		return forms.NewMailInboundForm(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDraftKind, kind)
	}
}

// Create stores a new draft of kind for owner and returns its id.
func (s *DraftService) Create(owner, kind string) (string, error) {
	d, err := NewDraft(kind)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.drafts[id] = &draftEntry{owner: owner, draft: d, lastSeen: s.now()}
	s.mu.Unlock()

	logger.Info.Printf("[DraftService.Create] %s draft %s for %s", kind, id, owner)
	return id, nil
}

// With runs fn on the draft while holding its lock. Drafts of other owners
// are reported as missing.
func (s *DraftService) With(owner, id string, fn func(forms.Draft) error) error {
	s.mu.Lock()
	e, ok := s.drafts[id]
	if ok {
		e.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok || e.owner != owner {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.draft)
}

// Discard removes a draft. It reports whether one was removed.
func (s *DraftService) Discard(owner, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drafts[id]
	if !ok || e.owner != owner {
		return false
	}
	delete(s.drafts, id)
	logger.Debug.Printf("[DraftService.Discard] Removed draft %s of %s", id, owner)
	return true
}

// Sweep removes drafts untouched for longer than idle and returns how many
// were removed.
func (s *DraftService) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.drafts {
		if s.now().Sub(e.lastSeen) > idle {
			logger.Info.Printf("[DraftService.Sweep] Removing idle draft=%s owner=%s (idle=%v)", id, e.owner, idle)
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored drafts.
func (s *DraftService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// CleanupIdleDrafts sweeps svc every interval until ctx is done.
func CleanupIdleDrafts(ctx context.Context, svc DraftServiceInterface, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				svc.Sweep(idle)
			}
		}
	}()
}
