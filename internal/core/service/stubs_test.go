package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Generic in-memory repository
// ---------------------------------------------------------------------------

type memRepo[T any, PT ports.Entity[T]] struct {
	mu    sync.Mutex
	items map[string]*T
	order []string

	insertErr  error
	replaceErr error
	deleteErr  map[string]error
	inserts    int
	replaces   int
}

func newMemRepo[T any, PT ports.Entity[T]]() *memRepo[T, PT] {
	return &memRepo[T, PT]{items: make(map[string]*T), deleteErr: make(map[string]error)}
}

func (r *memRepo[T, PT]) put(e *T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := PT(e).Metadata().ID
	if _, ok := r.items[id]; !ok {
		r.order = append(r.order, id)
	}
	c := *e
	r.items[id] = &c
}

func (r *memRepo[T, PT]) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok
}

func (r *memRepo[T, PT]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *memRepo[T, PT]) List(_ context.Context, opts domain.ListOptions) ([]*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*T
	for i := len(r.order) - 1; i >= 0; i-- {
		if e, ok := r.items[r.order[i]]; ok {
			c := *e
			out = append(out, &c)
		}
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *memRepo[T, PT]) FindByID(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (r *memRepo[T, PT]) Insert(_ context.Context, e *T) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	id := PT(e).Metadata().ID
	r.mu.Lock()
	_, exists := r.items[id]
	r.mu.Unlock()
	if exists {
		return domain.ErrConflict
	}
	r.put(e)
	r.mu.Lock()
	r.inserts++
	r.mu.Unlock()
	return nil
}

func (r *memRepo[T, PT]) Replace(_ context.Context, id string, e *T) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.mu.Lock()
	_, ok := r.items[id]
	r.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	r.put(e)
	r.mu.Lock()
	r.replaces++
	r.mu.Unlock()
	return nil
}

func (r *memRepo[T, PT]) Existing(_ context.Context, ids []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []string
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (r *memRepo[T, PT]) Delete(_ context.Context, id string) error {
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo[T, PT]) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Users, sessions, installation, notifier
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	*memRepo[domain.User, *domain.User]
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{memRepo: newMemRepo[domain.User]()}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	return int64(r.len()), nil
}

func (r *stubUserRepo) Insert(ctx context.Context, u *domain.User) error {
	if _, err := r.FindByEmail(ctx, u.Email); err == nil {
		return domain.ErrUserExists
	}
	return r.memRepo.Insert(ctx, u)
}

type stubSessions struct {
	mu        sync.Mutex
	live      map[string]string
	existsErr error
}

func newStubSessions() *stubSessions {
	return &stubSessions{live: make(map[string]string)}
}

func (s *stubSessions) Save(_ context.Context, tokenID, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[tokenID] = userID
	return nil
}

func (s *stubSessions) Exists(_ context.Context, tokenID string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[tokenID]
	return ok, nil
}

func (s *stubSessions) Delete(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, tokenID)
	return nil
}

// stubInstallRepo emulates the conditional upsert of the Mongo repository
// with a mutex.
type stubInstallRepo struct {
	mu     sync.Mutex
	record *domain.Installation
	claims int
}

func (r *stubInstallRepo) Get(context.Context) (*domain.Installation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil {
		return &domain.Installation{State: domain.StateUninstalled}, nil
	}
	c := *r.record
	return &c, nil
}

func (r *stubInstallRepo) Claim(_ context.Context, token, adminID string, now, staleBefore time.Time) (*domain.Installation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.record
	if prev != nil {
		stale := prev.State == domain.StateInstalling && prev.ClaimedAt.Before(staleBefore)
		if !stale {
			return nil, domain.ErrAlreadyInstalled
		}
	}
	r.claims++
	r.record = &domain.Installation{State: domain.StateInstalling, ClaimToken: token, ClaimedAt: now, AdminID: adminID}
	return prev, nil
}

func (r *stubInstallRepo) Complete(_ context.Context, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil || r.record.State != domain.StateInstalling || r.record.ClaimToken != token {
		return domain.ErrAlreadyInstalled
	}
	r.record.State = domain.StateInstalled
	r.record.InstalledAt = &at
	return nil
}

func (r *stubInstallRepo) Release(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record != nil && r.record.State == domain.StateInstalling && r.record.ClaimToken == token {
		r.record = nil
	}
	return nil
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []ports.NotificationInput
}

func (n *stubNotifier) Enqueue(in ports.NotificationInput) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, in)
}
