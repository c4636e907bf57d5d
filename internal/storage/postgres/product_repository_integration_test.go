package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

func newIntegrationProduct(name string, priceMinor int64, inStock int32) domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Product{
		ID:         uuid.NewString(),
		Name:       name,
		PriceMinor: priceMinor,
		IsActive:   true,
		InStock:    inStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestProductRepository_PostgresCreateGetList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)
	ctx := context.Background()

	product := newIntegrationProduct("pg-widget", 999, 5)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := repo.Create(ctx, product); !errors.Is(err, domain.ErrProductExists) {
		t.Fatalf("expected ErrProductExists on duplicate id, got %v", err)
	}

	dup := newIntegrationProduct("pg-widget", 100, 1)
	if err := repo.Create(ctx, dup); !errors.Is(err, domain.ErrProductExists) {
		t.Fatalf("expected ErrProductExists on duplicate name, got %v", err)
	}

	got, err := repo.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != product.Name || got.PriceMinor != 999 || got.InStock != 5 {
		t.Fatalf("unexpected product: %+v", got)
	}

	if _, err := repo.Get(ctx, uuid.NewString()); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	inactive := newIntegrationProduct("pg-hidden", 100, 1)
	inactive.IsActive = false
	if err := repo.Create(ctx, inactive); err != nil {
		t.Fatalf("create inactive product: %v", err)
	}

	active, err := repo.ListActive(ctx, 0)
	if err != nil {
		t.Fatalf("list active products: %v", err)
	}
	if len(active) != 1 || active[0].ID != product.ID {
		t.Fatalf("unexpected active products: %+v", active)
	}
}

func TestProductRepository_PostgresReserve(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)
	ctx := context.Background()

	product := newIntegrationProduct("pg-reserve", 500, 5)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	remaining, err := repo.Reserve(ctx, product.ID, 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if remaining != 3 {
		t.Fatalf("expected remaining 3, got %d", remaining)
	}

	if _, err := repo.Reserve(ctx, product.ID, 4); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := repo.Reserve(ctx, uuid.NewString(), 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := repo.Reserve(ctx, product.ID, 0); !errors.Is(err, domain.ErrReservationQtyInvalid) {
		t.Fatalf("expected ErrReservationQtyInvalid, got %v", err)
	}

	got, err := repo.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product after reserves: %v", err)
	}
	if got.InStock != 3 {
		t.Fatalf("expected stock 3 after failed reserves, got %d", got.InStock)
	}
}

func TestProductRepository_PostgresReserveConcurrent(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)
	ctx := context.Background()

	const (
		initialStock = int32(10)
		workers      = 25
	)

	product := newIntegrationProduct("pg-concurrent", 100, initialStock)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		reserved     int
		insufficient int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Reserve(ctx, product.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				reserved++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Errorf("unexpected reserve error: %v", err)
			}
		}()
	}
	wg.Wait()

	if reserved != int(initialStock) {
		t.Fatalf("expected %d successful reserves, got %d", initialStock, reserved)
	}
	if insufficient != workers-int(initialStock) {
		t.Fatalf("expected %d insufficient results, got %d", workers-int(initialStock), insufficient)
	}

	got, err := repo.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product after concurrent reserves: %v", err)
	}
	if got.InStock != 0 {
		t.Fatalf("expected zero stock, got %d", got.InStock)
	}
}
