package core

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")                              // 401 Unauthorized
	ErrInvalidAuthHeader  = errors.New("invalid authorization format, expected 'Bearer <key>'") // 401
	ErrInvalidAPIKey      = errors.New("invalid api key")                                        // 401
	ErrInvalidToken       = errors.New("invalid access token")                                   // 401
	ErrUnauthenticated    = errors.New("authentication required")                                // 401
	ErrForbidden          = errors.New("permission denied")                                      // 403
)

// Member errors
var (
	ErrEmailExists      = errors.New("email already registered")       // 409 Conflict
	ErrMemberNotFound   = errors.New("member not found")               // 404 Not Found
	ErrAdminWithdrawal  = errors.New("administrators cannot withdraw") // 403
	ErrEmailRequired    = errors.New("email is required")              // 400
	ErrPasswordRequired = errors.New("password is required")           // 400
	ErrPasswordTooShort = errors.New("password is too short")          // 400
	ErrPasswordTooLong  = errors.New("password is too long")           // 400
	ErrNameRequired     = errors.New("name is required")               // 400
)

// Order errors
var (
	ErrOrderNotFound        = errors.New("order not found")                        // 404
	ErrOrderAlreadyTerminal = errors.New("order is already completed or canceled") // 409
	ErrInvalidOrderStatus   = errors.New("invalid order status")                   // 400
	ErrInvalidQuantity      = errors.New("quantity must be positive")              // 400
	ErrEmptyOrder           = errors.New("order has no items")                     // 400
	ErrProductNotFound      = errors.New("product not found")                      // 404
	ErrProductNotOrderable  = errors.New("product is not orderable")               // 400
)

// Address errors
var (
	ErrAddressNotFound = errors.New("address not found")                 // 404
	ErrAddressExists   = errors.New("identical address already exists") // 409
	ErrBlankAddress    = errors.New("address content cannot be blank")  // 400
)

// Cache errors
var (
	ErrCacheNotFound = errors.New("member not found in cache")
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired   = errors.New("database adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")     // 500
	ErrSecretRequired      = errors.New("secret is required")           // 500
	ErrSecretTooShort      = errors.New("secret too short")             // 500
)
