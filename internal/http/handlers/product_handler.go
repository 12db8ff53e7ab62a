package handlers

import (
	"offerbytes/internal/log"
	"offerbytes/internal/services"
	"offerbytes/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	*Renderer
	Catalog *services.CatalogService
	Cart    *services.CartService
	Offers  *services.OfferService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return h.notFound(c, fiber.StatusNotFound, "This item is no longer available")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || p.ID == "" || !p.Active {
		return h.notFound(c, fiber.StatusNotFound, "This item is no longer available")
	}

	a := actor(c)
	_, lines, err := h.Cart.Lines(a)
	if err != nil {
		log.Error(c, "product.cart.load", err, map[string]any{"product": id})
		return err
	}
	now := h.Cart.Now()
	form, err := h.Offers.CanDisplayOfferForm(a, p, lines, now)
	if err != nil {
		return err
	}
	price, err := h.Offers.DisplayPrice(a, p, lines, now)
	if err != nil {
		return err
	}
	return h.render(c, "product", fiber.Map{
		"P":            p,
		"Form":         form,
		"Price":        price,
		"LockedNotice": services.LockedNotice,
	})
}
