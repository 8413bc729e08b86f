package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/events"
	authsvc "shopfront/internal/service/auth"
	cartsvc "shopfront/internal/service/cart"
	checkoutsvc "shopfront/internal/service/checkout"
	productsvc "shopfront/internal/service/product"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type authService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*authsvc.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*authsvc.Session, error)
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

type productService interface {
	Create(ctx context.Context, sellerID string, in productsvc.CreateInput) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type cartService interface {
	Add(ctx context.Context, userID string, in cartsvc.AddInput) (*domain.CartItem, error)
	List(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, id domain.Identity) (*checkoutsvc.Result, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

// Deps groups the services the router dispatches to.
type Deps struct {
	AuthSvc     authService
	ProductSvc  productService
	CartSvc     cartService
	CheckoutSvc checkoutService
	// Publisher receives webhook payloads; nil only logs them.
	Publisher        events.Publisher
	CORSAllowOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.AuthSvc == nil:
		return errors.New("auth service required")
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewLogPublisher(logger)
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestID(),
		gin.LoggerWithWriter(logger.Writer()),
		gin.Recovery(),
		cors.New(corsConfig(deps.CORSAllowOrigins)),
	)

	h := &handlers{deps: deps, logger: logger}
	guard := newGuards(deps.AuthSvc)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/token/refresh", h.refresh)

	router.GET("/products", h.listProducts)
	router.POST("/products", append(guard.authorized(domain.RoleSeller), h.createProduct)...)

	router.POST("/cart", guard.authenticate, h.addToCart)
	router.GET("/cart", guard.authenticate, h.listCart)
	router.POST("/checkout", guard.authenticate, h.checkout)
	router.GET("/orders", guard.authenticate, h.listOrders)

	router.POST("/webhook/cart-update", h.cartWebhook)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
