package handlers

import (
	"offerbytes/internal/config"
	"offerbytes/internal/metrics"
	"offerbytes/internal/repos"
	"offerbytes/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler
	AuthHandler     *AuthHandler

	// exposed so tests can pin the clock
	Cart *services.CartService
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, m *metrics.Registry) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	noticeRepo := repos.NewNoticeRepo(db)

	lockSvc := services.NewLockService(repos.NewLockRepo(db), cfg.LockWindow, m)
	offerSvc := services.NewOfferService(lockSvc, cfg.OfferTTL, m)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, noticeRepo, offerSvc, m)
	orderSvc := services.NewOrderService(cartSvc, orderRepo)

	r := &Renderer{Notices: noticeRepo, ExpiredText: cfg.ExpiredText}
	return &Deps{
		CategoryHandler: &CategoryHandler{Renderer: r, Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Renderer: r, Catalog: catalogSvc, Cart: cartSvc, Offers: offerSvc},
		CartHandler:     &CartHandler{Renderer: r, Cart: cartSvc},
		OrderHandler:    &OrderHandler{Renderer: r, Cart: cartSvc, Order: orderSvc, Repo: orderRepo},
		AdminHandler:    &AdminHandler{Renderer: r, OrderRepo: orderRepo, Products: prodRepo},
		AuthHandler:     &AuthHandler{Renderer: r, Auth: auth},
		Cart:            cartSvc,
	}
}
