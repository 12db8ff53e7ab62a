package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"offerbytes/internal/domain"
	applog "offerbytes/internal/log"
	"offerbytes/internal/pricing"
	"offerbytes/internal/repos"
)

var ErrEmptyCart = errors.New("cart empty")

type Contact struct {
	Name  string
	Email string
}

type OrderService struct {
	Cart   *CartService
	Orders *repos.OrderRepo
}

func NewOrderService(cart *CartService, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Cart: cart, Orders: orders}
}

// Place turns the reconciled cart into an order. Prices come from the cart
// lines as reconciled now, so a lapsed offer is never charged.
func (s *OrderService) Place(actor domain.Actor, fulfillment string, contact Contact) (string, decimal.Decimal, error) {
	if fulfillment == "" {
		fulfillment = "delivery"
	}
	cartID, lines, err := s.Cart.Lines(actor)
	if err != nil {
		return "", decimal.Zero, err
	}
	if len(lines) == 0 {
		return "", decimal.Zero, ErrEmptyCart
	}

	now := s.Cart.Now()
	total := pricing.Total(lines, now)
	out := make([]repos.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, repos.OrderLine{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			Price:     l.UnitPrice,
			Condition: l.Condition,
			Offered:   l.HasActiveOverride(now),
		})
	}

	orderID := uuid.NewString()
	if err := s.Orders.Create(orderID, actor.SessionID, fulfillment, contact.Name, contact.Email, total, out); err != nil {
		return "", decimal.Zero, err
	}
	// the order stands even if the cart cannot be emptied
	if err := s.Cart.Carts.Clear(cartID); err != nil {
		applog.Error(nil, "order.cart.clear.fail", err, map[string]any{"order_id": orderID, "cart_id": cartID})
	}
	return orderID, total, nil
}
