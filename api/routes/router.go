package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haritkart/storefront/api/controllers"
	"github.com/haritkart/storefront/api/middleware"
	"github.com/haritkart/storefront/api/responses"
	addresssvc "github.com/haritkart/storefront/internal/addresses"
	authsvc "github.com/haritkart/storefront/internal/auth"
	cartsvc "github.com/haritkart/storefront/internal/cart"
	checkoutsvc "github.com/haritkart/storefront/internal/checkout"
	negotiationsvc "github.com/haritkart/storefront/internal/negotiations"
	ordersvc "github.com/haritkart/storefront/internal/orders"
	productsvc "github.com/haritkart/storefront/internal/products"
	"github.com/haritkart/storefront/internal/session"
	"github.com/haritkart/storefront/pkg/config"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/logger"
	"github.com/haritkart/storefront/pkg/redis"
	"github.com/haritkart/storefront/pkg/upstream"
)

// NewRouter wires the storefront surface. Browsing is public; the cart,
// checkout, orders and negotiations sit behind the session with per-role
// gating on top.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	core *upstream.Client,
	resolver *session.Resolver,
	authService authsvc.Service,
	productService productsvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
	negotiationService negotiationsvc.Service,
	addressService addresssvc.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.SessionCookies(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisClient, core, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(authService, logg))
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.Signup(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/forgot-password", controllers.ForgotPassword(authService, logg))
		r.Patch("/reset-password/{token}", controllers.ResetPassword(authService, logg))
		r.Post("/logout", controllers.Logout(authService, logg))
		r.Get("/me", controllers.Me(authService, logg))
		r.Patch("/me", controllers.UpdateMe(authService, logg))
		r.Patch("/password", controllers.UpdatePassword(authService, logg))
		r.Post("/select-role", controllers.SelectRole(authService, logg))
		r.Post("/become-farmer", controllers.BecomeFarmer(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Get("/search", controllers.SearchProducts(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(resolver, logg))
			r.Use(middleware.RequireRole(session.RoleFarmer, logg))
			r.Get("/my-products", controllers.MyProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(productService, logg))
		})

		r.Get("/{productID}", controllers.GetProduct(productService, logg))
	})
	r.Get("/api/v1/categories", controllers.ListCategories(productService, logg))

	consumerOnly := func(r chi.Router) chi.Router {
		return r.With(
			middleware.Session(resolver, logg),
			middleware.RequireRole(session.RoleConsumer, logg),
		)
	}
	farmerOnly := func(r chi.Router) chi.Router {
		return r.With(
			middleware.Session(resolver, logg),
			middleware.RequireRole(session.RoleFarmer, logg),
		)
	}

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(resolver, logg))
		r.Use(middleware.RequireRole(session.RoleConsumer, logg))
		r.Get("/", controllers.ViewCart(cartService, logg))
		r.Post("/", controllers.AddToCart(cartService, logg))
		r.Post("/clear", controllers.ClearCart(cartService, logg))
		r.Put("/{cartItemID}", controllers.UpdateCartItem(cartService, logg))
		r.Delete("/{cartItemID}", controllers.RemoveCartItem(cartService, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(middleware.Session(resolver, logg))
		r.Use(middleware.RequireRole(session.RoleConsumer, logg))
		r.Post("/", controllers.Checkout(checkoutService, logg))
		r.Get("/config", controllers.PaymentConfig(cfg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Route("/farmer", func(r chi.Router) {
			r.Use(middleware.Session(resolver, logg))
			r.Use(middleware.RequireRole(session.RoleFarmer, logg))
			r.Get("/my-sales", controllers.FarmerSales(orderService, logg))
			r.Get("/{orderID}", controllers.FarmerSaleDetail(orderService, logg))
			r.Patch("/{orderID}/status", controllers.UpdateOrderStatus(orderService, logg))
		})

		consumerOnly(r).Get("/", controllers.MyOrders(orderService, logg))
		consumerOnly(r).Get("/{orderID}", controllers.OrderDetail(orderService, logg))
		consumerOnly(r).Patch("/{orderID}/cancel", controllers.CancelOrder(orderService, logg))
	})

	r.Route("/api/v1/negotiations", func(r chi.Router) {
		r.Route("/farmer", func(r chi.Router) {
			r.Use(middleware.Session(resolver, logg))
			r.Use(middleware.RequireRole(session.RoleFarmer, logg))
			r.Get("/", controllers.ReceivedOffers(negotiationService, logg))
		})

		farmerOnly(r).Patch("/accept/{offerID}", controllers.AcceptOffer(negotiationService, logg))
		farmerOnly(r).Patch("/reject/{offerID}", controllers.RejectOffer(negotiationService, logg))

		consumerOnly(r).Post("/", controllers.SendOffer(negotiationService, productService, logg))
		consumerOnly(r).Get("/consumer", controllers.MyOffers(negotiationService, logg))
	})

	r.Route("/api/v1/addresses", func(r chi.Router) {
		r.Use(middleware.Session(resolver, logg))
		r.Use(middleware.RequireRole(session.RoleConsumer, logg))
		r.Get("/", controllers.ListAddresses(addressService, logg))
		r.Post("/", controllers.AddAddress(addressService, logg))
		r.Put("/{addressID}", controllers.UpdateAddress(addressService, logg))
		r.Delete("/{addressID}", controllers.DeleteAddress(addressService, logg))
		r.Patch("/{addressID}/primary", controllers.SetPrimaryAddress(addressService, logg))
	})

	return r
}
