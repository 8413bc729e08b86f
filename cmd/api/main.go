package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/events"
	"shopfront/internal/httpserver"
	cartrepo "shopfront/internal/repository/cart"
	orderrepo "shopfront/internal/repository/order"
	productrepo "shopfront/internal/repository/product"
	tokenrepo "shopfront/internal/repository/token"
	userrepo "shopfront/internal/repository/user"
	authsvc "shopfront/internal/service/auth"
	cartsvc "shopfront/internal/service/cart"
	checkoutsvc "shopfront/internal/service/checkout"
	productsvc "shopfront/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := run(cfg, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

// run owns every resource it opens; it returns instead of exiting so the
// deferred closes always run.
func run(cfg config.Config, logger *log.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	pricer, err := checkoutsvc.PricerFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("checkout pricing: %w", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer dbpool.Close()

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.RabbitMQURL != "" {
		rabbit, conn, err := events.Dial(cfg.RabbitMQURL, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer conn.Close()
		defer rabbit.Close()
		publisher = rabbit
	}

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	authService := authsvc.New(userRepo, tokenRepo, authsvc.Options{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, logger)
	productService := productsvc.New(productRepo, logger)
	cartService := cartsvc.New(cartRepo, productRepo, logger)
	checkoutService := checkoutsvc.New(orderRepo, pricer, publisher, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:          authService,
		ProductSvc:       productService,
		CartSvc:          cartService,
		CheckoutSvc:      checkoutService,
		Publisher:        publisher,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (checkout pricing=%s)", cfg.HTTPAddr, cfg.CheckoutPricing)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stopCh)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	return nil
}
