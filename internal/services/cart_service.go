package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"offerbytes/internal/countdown"
	"offerbytes/internal/domain"
	applog "offerbytes/internal/log"
	"offerbytes/internal/metrics"
	"offerbytes/internal/pricing"
	"offerbytes/internal/repos"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrLineNotFound    = errors.New("cart line not found")
)

type CartService struct {
	Carts   *repos.CartRepo
	Prods   *repos.ProductRepo
	Notices *repos.NoticeRepo
	Offers  *OfferService
	Metrics *metrics.Registry
	Now     Clock
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, notices *repos.NoticeRepo, offers *OfferService, m *metrics.Registry) *CartService {
	return &CartService{Carts: carts, Prods: prods, Notices: notices, Offers: offers, Metrics: m, Now: SystemClock}
}

// AddRequest is an add-to-cart attempt. Offer is nil when no price was suggested.
type AddRequest struct {
	ProductID      string
	Qty            int
	Offer          *decimal.Decimal
	MalformedOffer bool
}

type AddResult struct {
	Decision Decision
	LineID   string
}

type CartLineView struct {
	domain.CartLine
	Offered     bool
	ExpiresUnix int64
	Countdown   string
	Subtotal    decimal.Decimal
}

type CartView struct {
	Lines []CartLineView
	Total decimal.Decimal
}

// Lines loads the session cart and reconciles it against the clock,
// persisting every line the pass changed.
func (s *CartService) Lines(actor domain.Actor) (string, []domain.CartLine, error) {
	cartID, err := s.Carts.EnsureCart(actor.SessionID)
	if err != nil {
		return "", nil, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return "", nil, err
	}
	res := pricing.Reconcile(lines, s.Now())
	for _, i := range res.Changed {
		if err := s.Carts.SaveLine(res.Lines[i]); err != nil {
			return "", nil, fmt.Errorf("save reconciled line: %w", err)
		}
	}
	s.Metrics.Reconciled(len(res.Notices))
	if res.NeedsRecalculation {
		applog.Info(nil, "cart.override.expired", map[string]any{"cart_id": cartID, "lines": len(res.Notices)})
		if err := s.Notices.Add(actor.SessionID, res.Notices...); err != nil {
			return "", nil, err
		}
	}
	return cartID, res.Lines, nil
}

func (s *CartService) Add(actor domain.Actor, req AddRequest) (AddResult, error) {
	if req.Qty < 1 {
		req.Qty = 1
	}
	p, err := s.Prods.Get(req.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return AddResult{}, ErrProductNotFound
	}
	if err != nil {
		return AddResult{}, err
	}
	cartID, lines, err := s.Lines(actor)
	if err != nil {
		return AddResult{}, err
	}
	now := s.Now()

	d := Decision{Outcome: NoOffer}
	if p.OffersEnabled() {
		switch {
		case req.MalformedOffer:
			s.Metrics.OfferDiscarded()
			d = Decision{Outcome: Discarded, Notice: notice(domain.NoticeError, InvalidNotice)}
		case req.Offer == nil:
		case req.Offer.IsPositive() && inCart(lines, p.ID):
			s.Metrics.OfferDiscarded()
			d = Decision{Outcome: Discarded, Notice: notice(domain.NoticeInfo, DuplicateNotice)}
		default:
			if d, err = s.Offers.EvaluateOffer(actor, p, *req.Offer, now); err != nil {
				return AddResult{}, err
			}
		}
	}

	res := AddResult{Decision: d}
	if d.Outcome == Accepted {
		res.LineID, err = s.Carts.InsertOfferLine(cartID, p.ID, req.Qty, *d.Override)
	} else {
		err = s.Carts.UpsertItem(cartID, p.ID, req.Qty, p.Price)
	}
	if err != nil {
		return AddResult{}, err
	}
	if d.Notice != nil {
		if err := s.Notices.Add(actor.SessionID, *d.Notice); err != nil {
			return AddResult{}, err
		}
	}
	return res, nil
}

// Remove deletes a line. Removing any line of an offer-enabled product arms the price lock.
func (s *CartService) Remove(actor domain.Actor, lineID string) error {
	cartID, _, err := s.Lines(actor)
	if err != nil {
		return err
	}
	removed, err := s.Carts.RemoveLine(cartID, lineID)
	if errors.Is(err, repos.ErrNotFound) {
		return ErrLineNotFound
	}
	if err != nil {
		return err
	}
	applog.Audit(nil, "cart.line.removed", map[string]any{
		"cart_id": cartID, "product": removed.ProductID, "offered": removed.Override != nil,
	})
	p, err := s.Prods.Get(removed.ProductID)
	if err != nil {
		return err
	}
	return s.Offers.OnOverrideLineRemoved(actor, p, s.Now())
}

func (s *CartService) View(actor domain.Actor) (CartView, error) {
	_, lines, err := s.Lines(actor)
	if err != nil {
		return CartView{}, err
	}
	now := s.Now()
	cv := CartView{Lines: make([]CartLineView, 0, len(lines)), Total: pricing.Total(lines, now)}
	for _, l := range lines {
		v := CartLineView{CartLine: l, Subtotal: l.Subtotal()}
		if l.HasActiveOverride(now) {
			v.Offered = true
			v.ExpiresUnix = l.Override.ExpiresAt.Unix()
			v.Countdown = countdown.Format(countdown.Remaining(l.Override.ExpiresAt, now))
		}
		cv.Lines = append(cv.Lines, v)
	}
	return cv, nil
}

// Clear empties the session cart.
func (s *CartService) Clear(actor domain.Actor) error {
	cartID, err := s.Carts.EnsureCart(actor.SessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}
