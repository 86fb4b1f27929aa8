package fiber

import (
	"github.com/gofiber/fiber/v3"

	"storefront"
)

type Adapter struct {
	app *fiber.App
	sf  *storefront.Storefront

	// publicPaths need no credential resolution at all.
	publicPaths    map[string]bool
	productsPrefix string
}

var _ storefront.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(s *storefront.Storefront) error {
	a.sf = s
	a.publicPaths = map[string]bool{
		s.BasePath + "/members/join":   true,
		s.BasePath + "/members/login":  true,
		s.BasePath + "/members/logout": true,
	}
	a.productsPrefix = s.BasePath + "/products"

	a.app.Use(a.authenticate)

	api := a.app.Group(s.BasePath)

	// Public routes
	members := api.Group("/members")
	members.Post("/join", a.join)
	members.Post("/login", a.login)
	members.Delete("/logout", a.logout)

	// Protected member routes. Route middleware runs ahead of the final
	// handler, so the guard is listed after it.
	members.Get("/info", a.memberInfo, a.requireAuth)
	members.Put("/info", a.updateMemberInfo, a.requireAuth)
	members.Delete("/withdraw", a.withdraw, a.requireAuth)
	members.Get("/orders", a.memberOrders, a.requireAuth)
	members.Get("/orders/:orderId", a.memberOrderDetail, a.requireAuth)

	orders := api.Group("/orders")
	orders.Post("", a.createOrder, a.requireAuth)
	orders.Delete("/:orderId", a.cancelOrder, a.requireAuth)
	orders.Put("/:orderId/address", a.changeOrderAddress, a.requireAuth)

	adm := api.Group("/adm/orders")
	adm.Get("", a.admListOrders, a.requireAdmin)
	adm.Get("/:orderId/detail", a.admOrderDetail, a.requireAdmin)
	adm.Put("/:orderId/status", a.admUpdateOrderStatus, a.requireAdmin)

	api.Get("/adm/members/count", a.admMemberCount, a.requireAdmin)

	addresses := api.Group("/addresses")
	addresses.Post("", a.submitAddress, a.requireAuth)
	addresses.Get("", a.listAddresses, a.requireAuth)
	addresses.Put("/:addressId", a.updateAddress, a.requireAuth)
	addresses.Delete("/:addressId", a.deleteAddress, a.requireAuth)
	addresses.Put("/:addressId/default", a.setDefaultAddress, a.requireAuth)

	// Anonymous product browsing
	products := api.Group("/products")
	products.Get("", a.listProducts)
	products.Get("/:productId", a.getProduct)

	return nil
}
