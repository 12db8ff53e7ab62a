package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"offerbytes/internal/domain"
	applog "offerbytes/internal/log"
	"offerbytes/internal/metrics"
)

const (
	RejectedNotice  = "The price you entered was below the acceptable minimum. The product was added to your cart at its regular price."
	LockedNotice    = "You are temporarily restricted and cannot buy this product at a custom price right now."
	DuplicateNotice = "This product is already in your cart, so the suggested price was ignored. The product was added at its regular price."
	InvalidNotice   = "The suggested price was not a valid amount. The product was added to your cart at its regular price."
)

// Outcome is the admission result for one offer.
type Outcome int

const (
	// NoOffer means no offer logic applied: feature off or a non-positive amount.
	NoOffer Outcome = iota
	Accepted
	// Rejected is a below-minimum offer. The product is still added at list price.
	Rejected
	// Discarded offers were ignored without arming a lock.
	Discarded
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Discarded:
		return "discarded"
	default:
		return "no_offer"
	}
}

type Decision struct {
	Outcome  Outcome
	Override *domain.CartLineOverride
	Notice   *domain.Notice
}

// FormState tells the product page whether to render the offer input.
type FormState struct {
	Show   bool
	Locked bool
}

// PriceDisplay is what the product page shows as price for an offer-enabled product.
type PriceDisplay struct {
	Show    bool
	Amount  decimal.Decimal
	Offered bool
}

// OfferService is the admission policy for suggested prices.
type OfferService struct {
	Locks   *LockService
	TTL     time.Duration
	Metrics *metrics.Registry
}

func NewOfferService(locks *LockService, ttl time.Duration, m *metrics.Registry) *OfferService {
	if ttl <= 0 {
		ttl = domain.CustomPriceExpiration
	}
	return &OfferService{Locks: locks, TTL: ttl, Metrics: m}
}

func notice(kind domain.NoticeKind, text string) *domain.Notice {
	return &domain.Notice{Kind: kind, Text: text}
}

// EvaluateOffer admits or rejects an offered unit price for p at now.
// Only lock storage failures are returned as errors.
func (s *OfferService) EvaluateOffer(actor domain.Actor, p domain.Product, offered decimal.Decimal, now time.Time) (Decision, error) {
	if !p.OffersEnabled() || !offered.IsPositive() {
		return Decision{Outcome: NoOffer}, nil
	}
	locked, err := s.Locks.IsLocked(actor, p.ID, now)
	if err != nil {
		return Decision{}, err
	}
	if locked {
		s.Metrics.OfferDiscarded()
		applog.Security(nil, "offer.discard.locked", map[string]any{"user_id": actor.UserID, "product": p.ID})
		return Decision{Outcome: Discarded, Notice: notice(domain.NoticeInfo, LockedNotice)}, nil
	}
	if offered.LessThan(p.MinSuggestedPrice) {
		if err := s.Locks.Arm(actor, p.ID, now, LockRejectedOffer); err != nil {
			return Decision{}, err
		}
		s.Metrics.OfferRejected()
		applog.Audit(nil, "offer.reject", map[string]any{
			"user_id": actor.UserID, "product": p.ID, "offered": offered.String(), "min": p.MinSuggestedPrice.String(),
		})
		return Decision{Outcome: Rejected, Notice: notice(domain.NoticeError, RejectedNotice)}, nil
	}

	ov := &domain.CartLineOverride{
		SuggestedPrice: offered,
		OriginalPrice:  p.Price,
		ExpiresAt:      now.Add(s.TTL).Truncate(time.Second),
		Token:          uuid.NewString(),
	}
	s.Metrics.OfferAccepted()
	applog.Audit(nil, "offer.accept", map[string]any{
		"user_id": actor.UserID, "product": p.ID, "offered": offered.String(), "expires_at": ov.ExpiresAt.Unix(),
	})
	return Decision{Outcome: Accepted, Override: ov}, nil
}

// CanDisplayOfferForm hides the offer input when the product is not enabled,
// when the actor is locked, or when the cart already holds any line of the
// product. A lapsed offer still occupies the cart, so it cannot be retried.
func (s *OfferService) CanDisplayOfferForm(actor domain.Actor, p domain.Product, lines []domain.CartLine, now time.Time) (FormState, error) {
	if !p.OffersEnabled() {
		return FormState{}, nil
	}
	locked, err := s.Locks.IsLocked(actor, p.ID, now)
	if err != nil {
		return FormState{}, err
	}
	if locked {
		return FormState{Locked: true}, nil
	}
	if inCart(lines, p.ID) {
		return FormState{}, nil
	}
	return FormState{Show: true}, nil
}

// OnOverrideLineRemoved penalizes withdrawing any line of an offer-enabled
// product, whether its offer is still running, has lapsed, or never existed.
func (s *OfferService) OnOverrideLineRemoved(actor domain.Actor, p domain.Product, now time.Time) error {
	if !p.OffersEnabled() {
		return nil
	}
	return s.Locks.Arm(actor, p.ID, now, LockLineRemoved)
}

// DisplayPrice decides the product page price of p. Enabled products keep
// their list price hidden unless the actor is locked out of offering (list
// price) or already holds an offer in the cart (offered price).
func (s *OfferService) DisplayPrice(actor domain.Actor, p domain.Product, lines []domain.CartLine, now time.Time) (PriceDisplay, error) {
	if !p.OffersEnabled() {
		return PriceDisplay{Show: true, Amount: p.Price}, nil
	}
	if !actor.Authenticated() {
		return PriceDisplay{}, nil
	}
	locked, err := s.Locks.IsLocked(actor, p.ID, now)
	if err != nil {
		return PriceDisplay{}, err
	}
	if locked {
		return PriceDisplay{Show: true, Amount: p.Price}, nil
	}
	for _, l := range lines {
		if l.ProductID == p.ID && l.HasActiveOverride(now) {
			return PriceDisplay{Show: true, Amount: l.Override.SuggestedPrice, Offered: true}, nil
		}
	}
	return PriceDisplay{}, nil
}

func inCart(lines []domain.CartLine, productID string) bool {
	for _, l := range lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}
