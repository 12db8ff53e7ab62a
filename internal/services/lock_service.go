package services

import (
	"fmt"
	"time"

	"offerbytes/internal/domain"
	applog "offerbytes/internal/log"
	"offerbytes/internal/metrics"
)

// LockStore persists one lock timestamp per (user, product).
type LockStore interface {
	LockedAt(userID, productID string) (time.Time, bool, error)
	SetLockedAt(userID, productID string, at time.Time) error
}

// LockReason labels why a lock was armed.
type LockReason string

const (
	LockRejectedOffer LockReason = "rejected_offer"
	LockLineRemoved   LockReason = "line_removed"
)

// LockService answers whether an actor is rate-limited from offering on a
// product. Anonymous actors are never locked.
type LockService struct {
	Store   LockStore
	Window  time.Duration
	Metrics *metrics.Registry
}

func NewLockService(store LockStore, window time.Duration, m *metrics.Registry) *LockService {
	if window <= 0 {
		window = domain.TimeLimit
	}
	return &LockService{Store: store, Window: window, Metrics: m}
}

func (s *LockService) IsLocked(actor domain.Actor, productID string, now time.Time) (bool, error) {
	if !actor.Authenticated() {
		return false, nil
	}
	at, ok, err := s.Store.LockedAt(actor.UserID, productID)
	if err != nil {
		return false, fmt.Errorf("read price lock: %w", err)
	}
	if !ok {
		return false, nil
	}
	l := domain.PriceLock{UserID: actor.UserID, ProductID: productID, LockedAt: at}
	return l.Active(now, s.Window), nil
}

// Arm sets the lock to now, replacing any earlier one.
func (s *LockService) Arm(actor domain.Actor, productID string, now time.Time, reason LockReason) error {
	if !actor.Authenticated() {
		return nil
	}
	if err := s.Store.SetLockedAt(actor.UserID, productID, now); err != nil {
		return fmt.Errorf("arm price lock: %w", err)
	}
	s.Metrics.LockArmed(string(reason))
	applog.Audit(nil, "offer.lock.armed", map[string]any{
		"user_id": actor.UserID, "product": productID, "reason": string(reason), "locked_at": now.Unix(),
	})
	return nil
}
