package kv

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/izzatfaris/permohonan-intake/internal/kvstore"
	"github.com/izzatfaris/permohonan-intake/internal/submission"
)

// Repository implements submission.Repository on top of the kv store.
//
// Identifiers are the wall-clock creation time in milliseconds, kept for
// compatibility with records written by earlier deployments. Two creations
// within the same millisecond collide and the second overwrites the first;
// the clock is injectable so that behavior stays testable.
type Repository struct {
	store kvstore.Store
	now   func() time.Time

	// appends to a given email index are serialized so concurrent creations
	// from the same address cannot lose updates
	emailLocks keyedMutex
}

// NewRepository creates a repository using the wall clock.
func NewRepository(store kvstore.Store) *Repository {
	return NewRepositoryWithClock(store, time.Now)
}

// NewRepositoryWithClock creates a repository with an injected clock.
func NewRepositoryWithClock(store kvstore.Store, now func() time.Time) *Repository {
	return &Repository{store: store, now: now}
}

// Create assigns the id and timestamps, stores the record and appends the id
// to the email index. The record write and the index append are two separate
// store calls; a failure between them leaves the record unindexed. A
// same-millisecond collision overwrites the earlier record but still appends
// the shared id, so the email index then lists the surviving record twice.
func (r *Repository) Create(ctx context.Context, sub *submission.Submission) error {
	now := r.now()
	sub.ID = strconv.FormatInt(now.UnixMilli(), 10)
	sub.SubmittedAt = now
	sub.UpdatedAt = now

	if err := r.store.Set(ctx, submission.Key(sub.ID), sub); err != nil {
		return err
	}

	return r.appendToEmailIndex(ctx, sub.Email, sub.ID)
}

func (r *Repository) appendToEmailIndex(ctx context.Context, email, id string) error {
	emailKey := submission.EmailKey(email)

	unlock := r.emailLocks.lock(strings.ToLower(email))
	defer unlock()

	var ids []string
	if _, err := r.store.Get(ctx, emailKey, &ids); err != nil {
		return err
	}

	return r.store.Set(ctx, emailKey, append(ids, id))
}

// GetAll prefix-scans the submission namespace and returns the records
// newest first.
func (r *Repository) GetAll(ctx context.Context) ([]*submission.Submission, error) {
	raws, err := r.store.GetByPrefix(ctx, submission.KeyPrefix)
	if err != nil {
		return nil, err
	}

	subs := make([]*submission.Submission, 0, len(raws))
	for _, raw := range raws {
		var sub submission.Submission
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}

	sortNewestFirst(subs)
	return subs, nil
}

// GetByID returns submission.ErrNotFound for an unknown id.
func (r *Repository) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	var sub submission.Submission
	found, err := r.store.Get(ctx, submission.Key(id), &sub)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, submission.ErrNotFound
	}
	return &sub, nil
}

// GetByEmail resolves the ids listed in the email index. An absent index
// yields an empty result. Ids whose record no longer resolves are skipped
// rather than failing the whole lookup.
func (r *Repository) GetByEmail(ctx context.Context, email string) ([]*submission.Submission, error) {
	var ids []string
	if _, err := r.store.Get(ctx, submission.EmailKey(email), &ids); err != nil {
		return nil, err
	}

	subs := make([]*submission.Submission, 0, len(ids))
	for _, id := range ids {
		var sub submission.Submission
		found, err := r.store.Get(ctx, submission.Key(id), &sub)
		if err != nil {
			return nil, err
		}
		if !found {
			// dangling index entry
			continue
		}
		subs = append(subs, &sub)
	}

	sortNewestFirst(subs)
	return subs, nil
}

// UpdateStatus replaces the status and refreshes updatedAt, writing the whole
// record back. Last writer wins on the full record, not just the status field.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) (*submission.Submission, error) {
	sub, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.Status = status
	sub.UpdatedAt = r.now()

	if err := r.store.Set(ctx, submission.Key(id), sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func sortNewestFirst(subs []*submission.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
}

// keyedMutex hands out one mutex per key. Entries are never pruned, matching
// the email index itself.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
