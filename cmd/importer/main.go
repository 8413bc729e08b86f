package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/domain"
	"shopfront/internal/importer"
	productrepo "shopfront/internal/repository/product"
	userrepo "shopfront/internal/repository/user"
	productsvc "shopfront/internal/service/product"
)

func main() {
	var (
		filePath    string
		sellerEmail string
	)
	flag.StringVar(&filePath, "file", "", "Path to a name,description,price,stock CSV file")
	flag.StringVar(&sellerEmail, "seller", "", "Email of the seller that will own the products")
	flag.Parse()

	if filePath == "" || sellerEmail == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	seller, err := userrepo.NewPostgres(pool, logger).GetByEmail(ctx, sellerEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Fatalf("no user with email %q", sellerEmail)
		}
		logger.Fatalf("lookup seller: %v", err)
	}
	if seller.Role != domain.RoleSeller {
		logger.Fatalf("user %q is a %s, not a seller", sellerEmail, seller.Role)
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	products := productsvc.New(productrepo.NewPostgres(pool, logger), logger)
	imp := importer.NewCSVImporter(f, products, seller.ID)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d products: %v", count, err)
	}

	fmt.Printf("Imported %d products for %s in %s\n", count, sellerEmail, time.Since(start).Truncate(time.Millisecond))
}
