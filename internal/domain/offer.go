package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// TimeLimit is how long a price lock keeps an actor away from offers on a product.
	TimeLimit = 60 * time.Second
	// CustomPriceExpiration is how long an accepted offer is honored in the cart.
	CustomPriceExpiration = 60 * time.Second
)

// PriceLock rate-limits one actor on one product. Locks expire passively.
type PriceLock struct {
	UserID    string
	ProductID string
	LockedAt  time.Time
}

// Active reports whether the lock still applies at now for the given window.
func (l PriceLock) Active(now time.Time, window time.Duration) bool {
	if l.LockedAt.IsZero() {
		return false
	}
	return now.Sub(l.LockedAt) < window
}

// CartLineOverride is an accepted offer attached to a cart line.
type CartLineOverride struct {
	SuggestedPrice decimal.Decimal
	OriginalPrice  decimal.Decimal
	ExpiresAt      time.Time
	Token          string
}

// Expired is true once now reaches ExpiresAt; the override is honored only strictly before it.
func (o CartLineOverride) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// Remaining is the time left before expiry, never negative.
func (o CartLineOverride) Remaining(now time.Time) time.Duration {
	if d := o.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// CartLine is one row of a cart. UnitPrice is the effective price charged.
type CartLine struct {
	ID        string
	CartID    string
	ProductID string
	Title     string
	Condition string
	Qty       int
	UnitPrice decimal.Decimal
	Override  *CartLineOverride
}

// HasActiveOverride reports whether the line carries an offer still honored at now.
func (l CartLine) HasActiveOverride(now time.Time) bool {
	return l.Override != nil && !l.Override.Expired(now)
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// NoticeKind mirrors the storefront's flash levels.
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "notice"
	NoticeError NoticeKind = "error"
)

// Notice is transient user-visible text shown on the next page render.
type Notice struct {
	Kind NoticeKind `db:"kind"`
	Text string     `db:"text"`
}
