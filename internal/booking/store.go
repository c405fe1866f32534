package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/turn-booking/internal/pkg/apperror"
	"github.com/nekogravitycat/turn-booking/internal/pkg/lock"
)

// Store is the authoritative booking table. Append and DeleteMatching run
// entirely inside one mutual-exclusion lock; List does not take the lock.
type Store interface {
	Append(ctx context.Context, b *Booking) (Result, error)
	DeleteMatching(ctx context.Context, key CancelKey) (Result, error)
	List(ctx context.Context) ([]*Booking, error)
	MaxPerDay() int
}

type StoreConfig struct {
	MaxPerDay int
	LockWait  time.Duration
}

type store struct {
	repo   Repository
	locker lock.Locker
	cfg    StoreConfig
	log    *zap.Logger
}

func NewStore(repo Repository, locker lock.Locker, cfg StoreConfig, log *zap.Logger) Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &store{
		repo:   repo,
		locker: locker,
		cfg:    cfg,
		log:    log,
	}
}

func (s *store) MaxPerDay() int {
	return s.cfg.MaxPerDay
}

// withLock runs fn while holding the store lock, waiting at most cfg.LockWait.
func (s *store) withLock(ctx context.Context, fn func() error) error {
	waitCtx := ctx
	if s.cfg.LockWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.cfg.LockWait)
		defer cancel()
	}

	unlock, err := s.locker.Lock(waitCtx)
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			s.log.Warn("booking store lock wait timed out", zap.Duration("wait", s.cfg.LockWait), zap.Error(err))
			return apperror.Wrap(err, ErrStoreBusy.Code, ErrStoreBusy.Message)
		}
		return fmt.Errorf("acquire store lock failed: %w", err)
	}
	defer unlock()

	return fn()
}

func (s *store) Append(ctx context.Context, b *Booking) (Result, error) {
	result := ResultError

	err := s.withLock(ctx, func() error {
		// 1. Same slot already booked
		taken, err := s.repo.ExistsSlot(ctx, b.Date, b.Time)
		if err != nil {
			return err
		}
		if taken {
			result = ResultTaken
			return nil
		}

		// 2. Day quota
		count, err := s.repo.CountByDate(ctx, b.Date)
		if err != nil {
			return err
		}
		if count >= s.cfg.MaxPerDay {
			result = ResultFull
			return nil
		}

		// 3. Commit
		if err := s.repo.Create(ctx, b); err != nil {
			if errors.Is(err, ErrSlotTaken) {
				result = ResultTaken
				return nil
			}
			return err
		}
		result = ResultSuccess
		return nil
	})
	if err != nil {
		s.log.Error("append booking failed", zap.String("date", b.Date), zap.String("time", b.Time), zap.Error(err))
		return ResultError, err
	}

	s.log.Info("append booking",
		zap.String("result", string(result)),
		zap.String("date", b.Date),
		zap.String("time", b.Time),
		zap.String("id", b.ID),
	)
	return result, nil
}

func (s *store) DeleteMatching(ctx context.Context, key CancelKey) (Result, error) {
	result := ResultError

	err := s.withLock(ctx, func() error {
		deleted, err := s.repo.DeleteFirstMatching(ctx, key)
		if err != nil {
			return err
		}
		if deleted {
			result = ResultCancelled
		} else {
			result = ResultNotFound
		}
		return nil
	})
	if err != nil {
		s.log.Error("delete booking failed", zap.String("date", key.Date), zap.String("time", key.Time), zap.Error(err))
		return ResultError, err
	}

	s.log.Info("delete booking",
		zap.String("result", string(result)),
		zap.String("date", key.Date),
		zap.String("time", key.Time),
	)
	return result, nil
}

func (s *store) List(ctx context.Context) ([]*Booking, error) {
	return s.repo.List(ctx)
}
