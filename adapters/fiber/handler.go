package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"storefront/services"
)

// ---- members ----

func (a *Adapter) join(c fiber.Ctx) error {
	var input services.JoinInput
	if err := c.Bind().Body(&input); err != nil {
		return badBody(c)
	}

	member, err := a.sf.Members.Join(input)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(member)
}

func (a *Adapter) login(c fiber.Ctx) error {
	var input services.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return badBody(c)
	}

	result, err := a.sf.Members.Login(input)
	if err != nil {
		return handleError(c, err)
	}

	setAuthCookies(c, result.APIKey, result.AccessToken)

	return c.Status(http.StatusOK).JSON(result)
}

func (a *Adapter) logout(c fiber.Ctx) error {
	clearAuthCookies(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "logged out",
	})
}

func (a *Adapter) withdraw(c fiber.Ctx) error {
	if err := a.sf.Members.Withdraw(actorFromCtx(c)); err != nil {
		return handleError(c, err)
	}

	clearAuthCookies(c)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "account withdrawn",
	})
}

func (a *Adapter) memberInfo(c fiber.Ctx) error {
	// Profile reads go to the credential store, not the claims view.
	member, err := a.sf.Members.Get(actorFromCtx(c).Member.ID)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(member)
}

func (a *Adapter) updateMemberInfo(c fiber.Ctx) error {
	var input services.UpdateInput
	if err := c.Bind().Body(&input); err != nil {
		return badBody(c)
	}

	member, err := a.sf.Members.Get(actorFromCtx(c).Member.ID)
	if err != nil {
		return handleError(c, err)
	}

	updated, err := a.sf.Members.Update(member, input)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(updated)
}

func (a *Adapter) memberOrders(c fiber.Ctx) error {
	orders, err := a.sf.Orders.ListByMember(actorFromCtx(c).Member.ID)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(orders)
}

func (a *Adapter) memberOrderDetail(c fiber.Ctx) error {
	order, err := a.sf.Orders.GetForMember(actorFromCtx(c), c.Params("orderId"))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// ---- orders ----

type orderCreateReqBody struct {
	ShippingAddress string                    `json:"shippingAddress"`
	Items           []services.OrderItemParam `json:"items"`
}

func (a *Adapter) createOrder(c fiber.Ctx) error {
	var body orderCreateReqBody
	if err := c.Bind().Body(&body); err != nil {
		return badBody(c)
	}

	order, err := a.sf.Orders.Create(actorFromCtx(c), body.ShippingAddress, body.Items)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(order)
}

func (a *Adapter) cancelOrder(c fiber.Ctx) error {
	order, err := a.sf.Orders.Cancel(actorFromCtx(c), c.Params("orderId"))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

type orderAddressReqBody struct {
	ShippingAddress string `json:"shippingAddress"`
}

func (a *Adapter) changeOrderAddress(c fiber.Ctx) error {
	var body orderAddressReqBody
	if err := c.Bind().Body(&body); err != nil {
		return badBody(c)
	}

	order, err := a.sf.Orders.ChangeAddress(actorFromCtx(c), c.Params("orderId"), body.ShippingAddress)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// ---- administrative orders ----

func (a *Adapter) admListOrders(c fiber.Ctx) error {
	orders, err := a.sf.Orders.ListAll()
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(orders)
}

func (a *Adapter) admOrderDetail(c fiber.Ctx) error {
	order, err := a.sf.Orders.Get(c.Params("orderId"))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

type orderStatusReqBody struct {
	Status string `json:"status"`
}

func (a *Adapter) admUpdateOrderStatus(c fiber.Ctx) error {
	var body orderStatusReqBody
	if err := c.Bind().Body(&body); err != nil {
		return badBody(c)
	}

	order, err := a.sf.Orders.AdminTransition(actorFromCtx(c), c.Params("orderId"), body.Status)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

func (a *Adapter) admMemberCount(c fiber.Ctx) error {
	count, err := a.sf.Members.Count()
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

// ---- addresses ----

type addressReqBody struct {
	Content string `json:"content"`
}

func (a *Adapter) submitAddress(c fiber.Ctx) error {
	var body addressReqBody
	if err := c.Bind().Body(&body); err != nil {
		return badBody(c)
	}

	address, err := a.sf.Addresses.Submit(actorFromCtx(c), body.Content)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(address)
}

func (a *Adapter) listAddresses(c fiber.Ctx) error {
	addresses, err := a.sf.Addresses.List(actorFromCtx(c))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(addresses)
}

func (a *Adapter) updateAddress(c fiber.Ctx) error {
	var body addressReqBody
	if err := c.Bind().Body(&body); err != nil {
		return badBody(c)
	}

	address, err := a.sf.Addresses.Update(actorFromCtx(c), c.Params("addressId"), body.Content)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(address)
}

func (a *Adapter) deleteAddress(c fiber.Ctx) error {
	if err := a.sf.Addresses.Delete(actorFromCtx(c), c.Params("addressId")); err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "address deleted",
	})
}

func (a *Adapter) setDefaultAddress(c fiber.Ctx) error {
	address, err := a.sf.Addresses.SetDefault(actorFromCtx(c), c.Params("addressId"))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(address)
}

// ---- products ----

func (a *Adapter) listProducts(c fiber.Ctx) error {
	products, err := a.sf.Database.ListProducts()
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(products)
}

func (a *Adapter) getProduct(c fiber.Ctx) error {
	product, err := a.sf.Database.GetProductByID(c.Params("productId"))
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(http.StatusOK).JSON(product)
}

func badBody(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
	})
}
