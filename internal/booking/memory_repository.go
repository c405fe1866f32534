package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu   sync.RWMutex
	rows []*Booking
	now  func() time.Time
}

// NewMemoryRepository returns a process-local Repository. Rows do not survive a restart.
func NewMemoryRepository() Repository {
	return &memoryRepository{now: time.Now}
}

func (r *memoryRepository) List(ctx context.Context) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Booking, len(r.rows))
	for i, b := range r.rows {
		cp := *b
		out[i] = &cp
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *memoryRepository) CountByDate(ctx context.Context, date string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, b := range r.rows {
		if b.Date == date {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepository) ExistsSlot(ctx context.Context, date, hhmm string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.existsLocked(date, hhmm), nil
}

func (r *memoryRepository) existsLocked(date, hhmm string) bool {
	for _, b := range r.rows {
		if b.Date == date && b.Time == hhmm {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.existsLocked(b.Date, b.Time) {
		return ErrSlotTaken
	}

	b.ID = uuid.NewString()
	b.CreatedAt = r.now().UTC()

	cp := *b
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memoryRepository) DeleteFirstMatching(ctx context.Context, key CancelKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Rows are kept in insertion order, so the first match is the oldest.
	for i, b := range r.rows {
		if key.Matches(b) {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
