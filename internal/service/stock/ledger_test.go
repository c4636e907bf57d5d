package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
	"github.com/vladislavdragonenkov/ecommerce/internal/storage/memory"
)

func seedProduct(t *testing.T, repo domain.ProductRepository, stock int32) domain.Product {
	t.Helper()

	now := time.Now().UTC()
	product := domain.Product{
		ID:         "product-1",
		Name:       "Keyboard",
		PriceMinor: 999,
		IsActive:   true,
		InStock:    stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestLedger_Reserve(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProduct(t, repo, 5)

	ledger := NewLedgerWithoutMetrics(repo, nil)

	remaining, err := ledger.Reserve(context.Background(), domain.ReservationRequest{ProductID: "product-1", Qty: 2})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if remaining != 3 {
		t.Fatalf("remaining = %d, want 3", remaining)
	}
}

func TestLedger_ReserveInvalidQty(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProduct(t, repo, 5)

	ledger := NewLedgerWithoutMetrics(repo, nil)

	for _, qty := range []int32{0, -1} {
		_, err := ledger.Reserve(context.Background(), domain.ReservationRequest{ProductID: "product-1", Qty: qty})
		if !errors.Is(err, domain.ErrReservationQtyInvalid) {
			t.Fatalf("qty=%d: expected ErrReservationQtyInvalid, got %v", qty, err)
		}
	}

	// Отклонение до критической секции: остаток не тронут.
	p, _ := repo.Get(context.Background(), "product-1")
	if p.InStock != 5 {
		t.Fatalf("stock = %d, want 5", p.InStock)
	}
}

func TestLedger_ReserveNotFound(t *testing.T) {
	repo := memory.NewProductRepository()
	ledger := NewLedgerWithoutMetrics(repo, nil)

	_, err := ledger.Reserve(context.Background(), domain.ReservationRequest{ProductID: "missing", Qty: 1})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestLedger_ReserveInsufficient(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProduct(t, repo, 2)

	ledger := NewLedgerWithoutMetrics(repo, nil)

	_, err := ledger.Reserve(context.Background(), domain.ReservationRequest{ProductID: "product-1", Qty: 3})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	p, _ := repo.Get(context.Background(), "product-1")
	if p.InStock != 2 {
		t.Fatalf("stock = %d, want 2 (unchanged)", p.InStock)
	}
}
