package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casamichael/shopping-backend/api/controllers"
	"github.com/casamichael/shopping-backend/api/middleware"
	internalauth "github.com/casamichael/shopping-backend/internal/auth"
	"github.com/casamichael/shopping-backend/internal/cart"
	"github.com/casamichael/shopping-backend/internal/catalog"
	"github.com/casamichael/shopping-backend/internal/categories"
	"github.com/casamichael/shopping-backend/internal/geo"
	"github.com/casamichael/shopping-backend/internal/orders"
	"github.com/casamichael/shopping-backend/internal/products"
	"github.com/casamichael/shopping-backend/pkg/auth/session"
	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/logger"
	"github.com/casamichael/shopping-backend/pkg/metrics"
	"github.com/casamichael/shopping-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Sessions *session.Manager
	Registry *prometheus.Registry
	HTTP     *metrics.HTTPMetrics

	Auth       internalauth.Service
	Catalog    catalog.Service
	Cart       cart.Service
	Orders     orders.Service
	Geo        geo.Service
	Categories categories.Service
	Products   products.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTP),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// public storefront
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.Browse(d.Catalog, logg))
		r.Get("/products/{productID}", controllers.CatalogProduct(d.Catalog, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.Register(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.Auth, logg))
		r.Post("/confirm-email", controllers.ConfirmEmail(d.Auth, logg))
		r.Post("/recover-password", controllers.RecoverPassword(d.Auth, logg))
		r.Post("/reset-password", controllers.ResetPassword(d.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Post("/refresh", controllers.Refresh(d.Auth, logg))
			r.Post("/logout", controllers.Logout(d.Auth, logg))
		})
	})

	// authenticated storefront
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.Me(d.Auth, logg))
			r.Put("/", controllers.UpdateProfile(d.Auth, logg))
			r.Put("/photo", controllers.UploadPhoto(d.Auth, logg))
			r.Put("/password", controllers.ChangePassword(d.Auth, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(d.Cart, logg))
			r.Post("/lines", controllers.AddCartLine(d.Cart, logg))
			r.Put("/lines/{lineID}", controllers.UpdateCartLine(d.Cart, logg))
			r.Post("/lines/{lineID}/increment", controllers.IncrementCartLine(d.Cart, logg))
			r.Post("/lines/{lineID}/decrement", controllers.DecrementCartLine(d.Cart, logg))
			r.Delete("/lines/{lineID}", controllers.RemoveCartLine(d.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(d.Orders, logg))
			r.Get("/", controllers.MyOrders(d.Orders, logg))
			r.Get("/{orderID}", controllers.MyOrderDetail(d.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.CancelMyOrder(d.Orders, logg))
		})
	})

	// back office
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(d.Orders, logg))
			r.Get("/{orderID}", controllers.AdminOrderDetail(d.Orders, logg))
			r.Post("/{orderID}/process", controllers.MarkOrderProcessed(d.Orders, logg))
			r.Post("/{orderID}/ship", controllers.MarkOrderShipped(d.Orders, logg))
			r.Post("/{orderID}/confirm", controllers.MarkOrderConfirmed(d.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.CancelOrder(d.Orders, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.Products, logg))
			r.Post("/", controllers.CreateProduct(d.Products, logg))
			r.Get("/{productID}", controllers.GetProduct(d.Products, logg))
			r.Put("/{productID}", controllers.UpdateProduct(d.Products, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(d.Products, logg))
			r.Post("/{productID}/images", controllers.AddProductImage(d.Products, logg))
			r.Post("/{productID}/categories", controllers.AddProductCategory(d.Products, logg))
		})
		r.Delete("/product-images/{imageID}", controllers.RemoveProductImage(d.Products, logg))
		r.Delete("/product-categories/{joinID}", controllers.RemoveProductCategory(d.Products, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(d.Categories, logg))
			r.Post("/", controllers.CreateCategory(d.Categories, logg))
			r.Get("/{categoryID}", controllers.GetCategory(d.Categories, logg))
			r.Put("/{categoryID}", controllers.UpdateCategory(d.Categories, logg))
			r.Delete("/{categoryID}", controllers.DeleteCategory(d.Categories, logg))
		})

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", controllers.ListCountries(d.Geo, logg))
			r.Post("/", controllers.CreateCountry(d.Geo, logg))
			r.Get("/{countryID}", controllers.GetCountry(d.Geo, logg))
			r.Put("/{countryID}", controllers.UpdateCountry(d.Geo, logg))
			r.Delete("/{countryID}", controllers.DeleteCountry(d.Geo, logg))
			r.Get("/{countryID}/states", controllers.ListStates(d.Geo, logg))
			r.Post("/{countryID}/states", controllers.CreateState(d.Geo, logg))
		})
		r.Route("/states/{stateID}", func(r chi.Router) {
			r.Get("/", controllers.GetState(d.Geo, logg))
			r.Put("/", controllers.UpdateState(d.Geo, logg))
			r.Delete("/", controllers.DeleteState(d.Geo, logg))
			r.Get("/cities", controllers.ListCities(d.Geo, logg))
			r.Post("/cities", controllers.CreateCity(d.Geo, logg))
		})
		r.Route("/cities/{cityID}", func(r chi.Router) {
			r.Get("/", controllers.GetCity(d.Geo, logg))
			r.Put("/", controllers.UpdateCity(d.Geo, logg))
			r.Delete("/", controllers.DeleteCity(d.Geo, logg))
		})

		r.Get("/users", controllers.ListUsers(d.Auth, logg))
		r.Post("/users", controllers.AdminCreateUser(d.Auth, logg))
	})

	// registration combos for address pickers
	r.Route("/api/v1/geo", func(r chi.Router) {
		r.Get("/countries", controllers.ListCountries(d.Geo, logg))
		r.Get("/countries/{countryID}/states", controllers.ListStates(d.Geo, logg))
		r.Get("/states/{stateID}/cities", controllers.ListCities(d.Geo, logg))
	})

	return r
}
