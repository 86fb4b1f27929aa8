package storefront

import (
	"fmt"
	"time"

	"storefront/core"
	"storefront/pkg/cache"
	"storefront/pkg/token"
	"storefront/services"
)

// interfaces
type (
	Storage = core.Storage
	Cache   = core.Cache

	PasswordHandler = core.PasswordHandler
)

// structs
type (
	Member    = core.Member
	Actor     = core.Actor
	Address   = core.Address
	Order     = core.Order
	OrderItem = core.OrderItem
	Product   = core.Product

	CacheConfig = core.CacheConfig
	CacheStats  = core.CacheStats

	Credentials = services.Credentials
	Resolution  = services.Resolution
)

// HTTPAdapter binds the storefront to an HTTP framework.
type HTTPAdapter interface {
	RegisterRoutes(s *Storefront) error
}

const (
	defaultBasePath  = "/api"
	defaultTokenTTL  = 30 * time.Minute
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache = cache.NewInMemoryCache
	NewArgon2        = core.NewArgon2
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrInvalidAuthHeader  = core.ErrInvalidAuthHeader
	ErrInvalidAPIKey      = core.ErrInvalidAPIKey
	ErrInvalidToken       = core.ErrInvalidToken
	ErrUnauthenticated    = core.ErrUnauthenticated
	ErrForbidden          = core.ErrForbidden
)

var (
	ErrEmailExists     = core.ErrEmailExists
	ErrMemberNotFound  = core.ErrMemberNotFound
	ErrAdminWithdrawal = core.ErrAdminWithdrawal
)

var (
	ErrOrderNotFound        = core.ErrOrderNotFound
	ErrOrderAlreadyTerminal = core.ErrOrderAlreadyTerminal
	ErrInvalidOrderStatus   = core.ErrInvalidOrderStatus
	ErrProductNotFound      = core.ErrProductNotFound
	ErrProductNotOrderable  = core.ErrProductNotOrderable
)

var (
	ErrAddressNotFound = core.ErrAddressNotFound
	ErrAddressExists   = core.ErrAddressExists
	ErrBlankAddress    = core.ErrBlankAddress
)

var (
	ErrDBAdapterRequired   = core.ErrDBAdapterRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

type Config struct {
	Secret string

	Database core.Storage

	HTTP HTTPAdapter

	// Optional config
	CacheAdapter   core.Cache
	DisableCache   bool
	TokenTTL       time.Duration
	PasswordHasher core.PasswordHandler
	BasePath       string
}

// Storefront bundles the wired services. The HTTP adapter registers its
// routes against it; everything below the adapter works on plain function
// calls taking an already-resolved actor.
type Storefront struct {
	Auth      *services.AuthResolver
	Members   *services.MemberService
	Orders    *services.OrderService
	Addresses *services.AddressService

	Database core.Storage
	BasePath string
}

func New(config Config) (*Storefront, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	tokenTTL := config.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = defaultTokenTTL
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = core.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	codec := token.NewCodec(config.Secret)
	resolver := services.NewAuthResolver(config.Database, codec, cacheAdapter, tokenTTL)

	sf := &Storefront{
		Auth:      resolver,
		Members:   services.NewMemberService(config.Database, config.Database, passwordHasher, resolver, cacheAdapter),
		Orders:    services.NewOrderService(config.Database, config.Database),
		Addresses: services.NewAddressService(config.Database),
		Database:  config.Database,
		BasePath:  basePath,
	}

	if err := config.HTTP.RegisterRoutes(sf); err != nil {
		return nil, err
	}

	return sf, nil
}
