package handlers

import (
	"offerbytes/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	*Renderer
	Catalog *services.CatalogService
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	return h.render(c, "home", fiber.Map{"Categories": cats})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	catID := c.Params("id")
	products, err := h.Catalog.ListProductsByCategory(catID, 1, 12)
	if err != nil {
		return err
	}
	return h.render(c, "category", fiber.Map{"CategoryID": catID, "Products": products})
}
