package handlers

import (
	"errors"

	applog "offerbytes/internal/log"
	"offerbytes/internal/repos"
	"offerbytes/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	*Renderer
	OrderRepo *repos.OrderRepo
	Products  *repos.ProductRepo
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return h.render(c, "admin_dashboard", fiber.Map{})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return h.render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status := c.FormValue("status")
	if id == "" || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.OrderRepo.UpdateStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	prods, err := h.Products.ListAll()
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return h.render(c, "admin_products", fiber.Map{"Products": prods})
}

// POST /admin/products/:id/offer
func (h *AdminHandler) UpdateProductOffer(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid product")
	}
	var enabled bool
	switch c.FormValue("enable_suggested_price") {
	case "yes":
		enabled = true
	case "no", "":
	default:
		return c.Status(400).SendString("invalid input")
	}
	minPrice, ok := validate.Price(c.FormValue("min_suggested_price"))
	if !ok || minPrice.IsNegative() {
		applog.Security(c, "validation.fail", map[string]any{"field": "min_suggested_price"})
		return c.Status(400).SendString("minimum price must be a non-negative amount")
	}

	err := h.Products.UpdateOfferSettings(id, enabled, minPrice)
	if errors.Is(err, repos.ErrNotFound) {
		return h.notFound(c, fiber.StatusNotFound, "This item is no longer available")
	}
	if err != nil {
		applog.Error(c, "admin.products.save.fail", err, map[string]any{"product": id})
		return c.Status(400).SendString("could not save product")
	}
	applog.Audit(c, "admin.products.offer", map[string]any{"product": id, "enabled": enabled, "min": minPrice.StringFixed(2)})
	return c.Redirect("/admin/products")
}
