package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopfront/internal/domain"
	productsvc "shopfront/internal/service/product"

	"github.com/shopspring/decimal"
)

// ProductCreator is satisfied by the product service, so imported rows go
// through the same validation as the API.
type ProductCreator interface {
	Create(ctx context.Context, sellerID string, in productsvc.CreateInput) (*domain.Product, error)
}

// CSVImporter reads name,description,price,stock rows and lists them for one seller.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductCreator
	sellerID string
}

func NewCSVImporter(r io.Reader, products ProductCreator, sellerID string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:   csvr,
		products: products,
		sellerID: sellerID,
	}
}

var requiredColumns = []string{"name", "price", "stock"}

// Run imports every row and returns how many products were created. It stops
// at the first invalid row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		in, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if _, err := i.products.Create(ctx, i.sellerID, in); err != nil {
			return imported, fmt.Errorf("row %d: create product %q: %w", line, in.Name, err)
		}
		imported++
	}
	return imported, nil
}

func parseRow(record []string, index map[string]int) (productsvc.CreateInput, error) {
	in := productsvc.CreateInput{
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
	}
	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return in, fmt.Errorf("%w: bad price", domain.ErrInvalidInput)
	}
	in.Price = price
	stock, err := strconv.Atoi(pick(record, index, "stock"))
	if err != nil {
		return in, fmt.Errorf("%w: bad stock", domain.ErrInvalidInput)
	}
	in.Stock = stock
	return in, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
