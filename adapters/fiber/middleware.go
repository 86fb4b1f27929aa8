package fiber

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"

	"storefront"
	"storefront/core"
	"storefront/services"
)

const actorLocalsKey = "actor"

// authenticate is the per-request credential filter. It resolves the acting
// principal before route-level error handling exists, so resolution errors
// are serialized to JSON right here.
func (a *Adapter) authenticate(c fiber.Ctx) error {
	path := c.Path()

	// Only API routes carry credentials.
	if !strings.HasPrefix(path, a.sf.BasePath+"/") {
		return c.Next()
	}

	// Public allow-list: login, logout, join, anonymous product browsing.
	// The products match is exact-or-slash so sibling paths sharing the
	// prefix still go through resolution.
	if a.publicPaths[path] || path == a.productsPrefix || strings.HasPrefix(path, a.productsPrefix+"/") {
		return c.Next()
	}

	creds, err := extractCredentials(c)
	if err != nil {
		return handleError(c, err)
	}

	resolution, err := a.sf.Auth.Resolve(creds)
	if err != nil {
		return handleError(c, err)
	}
	if resolution == nil {
		// No credential at all: the request proceeds unauthenticated and
		// protected routes reject it downstream.
		return c.Next()
	}

	// A fresh token rides back on both the cookie and the header so the
	// next request can resolve via claims without a store lookup.
	if resolution.FreshToken != "" {
		setTokenCookie(c, resolution.FreshToken)
		c.Set(fiber.HeaderAuthorization, "Bearer "+resolution.FreshToken)
	}

	// Store the actor in request-scoped context for downstream handlers.
	c.Locals(actorLocalsKey, resolution.Actor)

	return c.Next()
}

// requireAuth rejects requests that reached a protected route without a
// resolved actor.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	if actorFromCtx(c) == nil {
		return handleError(c, core.ErrUnauthenticated)
	}
	return c.Next()
}

// requireAdmin gates administrative routes.
func (a *Adapter) requireAdmin(c fiber.Ctx) error {
	if err := core.RequireAdmin(actorFromCtx(c)); err != nil {
		return handleError(c, err)
	}
	return c.Next()
}

func actorFromCtx(c fiber.Ctx) *core.Actor {
	actor, _ := c.Locals(actorLocalsKey).(*core.Actor)
	return actor
}

// extractCredentials reads the Authorization header first, in the form
// `Bearer <apiKey> [<accessToken>]`, then falls back to the apiKey and
// accessToken cookies. A non-Bearer header is an authentication error; a
// missing credential is not.
func extractCredentials(c fiber.Ctx) (services.Credentials, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return services.Credentials{}, core.ErrInvalidAuthHeader
		}

		parts := strings.SplitN(header, " ", 3)
		creds := services.Credentials{APIKey: parts[1]}
		if len(parts) == 3 {
			creds.AccessToken = parts[2]
		}
		return creds, nil
	}

	return services.Credentials{
		APIKey:      c.Cookies("apiKey"),
		AccessToken: c.Cookies("accessToken"),
	}, nil
}

func setAuthCookies(c fiber.Ctx, apiKey, accessToken string) {
	c.Cookie(&fiber.Cookie{Name: "apiKey", Value: apiKey, Path: "/", HTTPOnly: true})
	setTokenCookie(c, accessToken)
}

func setTokenCookie(c fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{Name: "accessToken", Value: accessToken, Path: "/", HTTPOnly: true})
}

func clearAuthCookies(c fiber.Ctx) {
	for _, name := range []string{"apiKey", "accessToken"} {
		c.Cookie(&fiber.Cookie{Name: name, Value: "", Path: "/", HTTPOnly: true, MaxAge: -1})
	}
}

// handleError maps domain errors to appropriate HTTP responses
func handleError(c fiber.Ctx, err error) error {
	return c.Status(mapErrorToStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps storefront error kinds to HTTP status codes. Every
// domain failure kind gets a stable, distinct status.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, storefront.ErrInvalidCredentials),
		errors.Is(err, storefront.ErrInvalidAuthHeader),
		errors.Is(err, storefront.ErrInvalidAPIKey),
		errors.Is(err, storefront.ErrInvalidToken),
		errors.Is(err, storefront.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, storefront.ErrForbidden),
		errors.Is(err, storefront.ErrAdminWithdrawal):
		return http.StatusForbidden

	case errors.Is(err, storefront.ErrMemberNotFound),
		errors.Is(err, storefront.ErrOrderNotFound),
		errors.Is(err, storefront.ErrAddressNotFound),
		errors.Is(err, storefront.ErrProductNotFound):
		return http.StatusNotFound

	case errors.Is(err, storefront.ErrEmailExists),
		errors.Is(err, storefront.ErrAddressExists),
		errors.Is(err, storefront.ErrOrderAlreadyTerminal):
		return http.StatusConflict

	case errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong),
		errors.Is(err, core.ErrNameRequired),
		errors.Is(err, storefront.ErrBlankAddress),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrEmptyOrder),
		errors.Is(err, storefront.ErrInvalidOrderStatus),
		errors.Is(err, storefront.ErrProductNotOrderable):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
