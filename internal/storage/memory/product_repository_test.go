package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

func makeProduct(id, name string, stock int32) domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:         id,
		Name:       name,
		PriceMinor: 999,
		IsActive:   true,
		InStock:    stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestProductRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	if err := repo.Create(ctx, makeProduct("product-1", "Keyboard", 5)); err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := repo.Get(ctx, "product-1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != "Keyboard" || got.InStock != 5 {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestProductRepository_UniqueName(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	if err := repo.Create(ctx, makeProduct("product-1", "Keyboard", 5)); err != nil {
		t.Fatalf("create product: %v", err)
	}
	err := repo.Create(ctx, makeProduct("product-2", "Keyboard", 1))
	if !errors.Is(err, domain.ErrProductExists) {
		t.Fatalf("expected ErrProductExists, got %v", err)
	}
}

func TestProductRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	active := makeProduct("product-1", "Keyboard", 5)
	inactive := makeProduct("product-2", "Mouse", 3)
	inactive.IsActive = false

	if err := repo.Create(ctx, active); err != nil {
		t.Fatalf("create active: %v", err)
	}
	if err := repo.Create(ctx, inactive); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	products, err := repo.ListActive(ctx, 0)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 1 || products[0].ID != "product-1" {
		t.Fatalf("expected only active product, got %+v", products)
	}
}

func TestProductRepository_Reserve(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	if err := repo.Create(ctx, makeProduct("product-1", "Keyboard", 5)); err != nil {
		t.Fatalf("create product: %v", err)
	}

	remaining, err := repo.Reserve(ctx, "product-1", 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if remaining != 3 {
		t.Fatalf("remaining = %d, want 3", remaining)
	}

	got, _ := repo.Get(ctx, "product-1")
	if got.InStock != 3 {
		t.Fatalf("stock = %d, want 3", got.InStock)
	}
}

func TestProductRepository_ReserveErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	if err := repo.Create(ctx, makeProduct("product-1", "Keyboard", 5)); err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, err := repo.Reserve(ctx, "missing", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := repo.Reserve(ctx, "product-1", 6); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := repo.Reserve(ctx, "product-1", 0); !errors.Is(err, domain.ErrReservationQtyInvalid) {
		t.Fatalf("expected ErrReservationQtyInvalid, got %v", err)
	}
	if _, err := repo.Reserve(ctx, "product-1", -1); !errors.Is(err, domain.ErrReservationQtyInvalid) {
		t.Fatalf("expected ErrReservationQtyInvalid, got %v", err)
	}

	// Неуспешные попытки не должны менять остаток.
	got, _ := repo.Get(ctx, "product-1")
	if got.InStock != 5 {
		t.Fatalf("stock = %d, want 5", got.InStock)
	}
}

// Конкурентные резервы одного товара: при остатке N и K запросах, суммарно
// превышающих N, должна пройти ровно та часть запросов, которая помещается
// в остаток; остаток никогда не уходит в минус.
func TestProductRepository_ReserveConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository()

	const stock = 10
	const workers = 25

	if err := repo.Create(ctx, makeProduct("product-1", "Keyboard", stock)); err != nil {
		t.Fatalf("create product: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	insufficient := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Reserve(ctx, "product-1", 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("unexpected reserve error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != stock {
		t.Fatalf("succeeded = %d, want %d", succeeded, stock)
	}
	if insufficient != workers-stock {
		t.Fatalf("insufficient = %d, want %d", insufficient, workers-stock)
	}

	got, _ := repo.Get(ctx, "product-1")
	if got.InStock != 0 {
		t.Fatalf("final stock = %d, want 0", got.InStock)
	}
}
