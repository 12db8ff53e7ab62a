package handlers

import (
	"errors"

	applog "offerbytes/internal/log"
	"offerbytes/internal/services"
	"offerbytes/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	*Renderer
	Cart *services.CartService
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	a := actor(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	offer, malformed := validate.Offer(c.FormValue("suggested_price"))

	res, err := h.Cart.Add(a, services.AddRequest{ProductID: productID, Qty: qty, Offer: offer, MalformedOffer: malformed})
	if errors.Is(err, services.ErrProductNotFound) {
		return h.notFound(c, fiber.StatusNotFound, "This item is no longer available")
	}
	if err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		return err
	}
	if res.Decision.Outcome != services.NoOffer {
		applog.Info(c, "cart.add.offer", map[string]any{"product": productID, "outcome": res.Decision.Outcome.String()})
	}
	return c.Redirect("/cart")
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(actor(c))
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return err
	}
	return h.render(c, "cart", fiber.Map{"Cart": cv})
}

// POST /cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	lineID, ok := validate.ID(c.FormValue("lineId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing lineId")
	}
	err := h.Cart.Remove(actor(c), lineID)
	if errors.Is(err, services.ErrLineNotFound) {
		return c.Redirect("/cart")
	}
	if err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"line": lineID})
		return err
	}
	return c.Redirect("/cart")
}
