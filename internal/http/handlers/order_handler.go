package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"offerbytes/internal/domain"
	applog "offerbytes/internal/log"
	"offerbytes/internal/repos"
	"offerbytes/internal/services"
	"offerbytes/internal/validate"
)

type OrderHandler struct {
	*Renderer
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv, err := h.Cart.View(actor(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return h.render(c, "checkout", fiber.Map{"Cart": cv})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	a := actor(c)

	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid email")
	}
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("name must be 1-20 characters")
	}

	fulfillment := strings.ToLower(strings.TrimSpace(c.FormValue("fulfillment")))
	if fulfillment != "delivery" && fulfillment != "pickup" {
		fulfillment = "delivery"
	}

	orderID, total, err := h.Order.Place(a, fulfillment, services.Contact{Name: name, Email: email})
	if errors.Is(err, services.ErrEmptyCart) {
		return c.Status(fiber.StatusBadRequest).SendString("Your cart is empty.")
	}
	if err != nil {
		applog.Error(c, "order.place.fail", err, map[string]any{"sid": a.SessionID})
		return c.Status(fiber.StatusBadRequest).SendString("Could not place order. Please review your cart and try again.")
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "total": total.StringFixed(2)})
	return c.Redirect("/order/" + orderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return h.notFound(c, fiber.StatusNotFound, "Order not found")
	}

	// session owner, same user, or admin
	sid := c.Cookies("sid")
	u, _ := c.Locals("user").(*domain.User)
	owner := (sid != "" && sid == o.SessionID) || (u != nil && u.ID == o.UserID)
	if !owner && !u.IsAdmin() {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return h.notFound(c, fiber.StatusNotFound, "Order not found")
	}
	return h.render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return h.notFound(c, fiber.StatusNotFound, "Orders not available")
	}
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	// Fallback: show session orders if none linked to user (e.g., pre-login)
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return h.render(c, "order_history", fiber.Map{"Orders": orders})
}
