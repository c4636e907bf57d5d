package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

func TestProductError_Unwrap(t *testing.T) {
	err := domain.NewProductError("product-7", domain.ErrInsufficientStock)

	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected errors.Is to match ErrInsufficientStock")
	}
	if errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("unexpected match with ErrProductNotFound")
	}
}

func TestProductIDFromError(t *testing.T) {
	err := domain.NewProductError("product-7", domain.ErrProductNotFound)
	// Идентификатор должен извлекаться и из обёрнутой цепочки.
	wrapped := fmt.Errorf("place order: %w", err)

	if got := domain.ProductIDFromError(wrapped); got != "product-7" {
		t.Fatalf("ProductIDFromError = %q, want %q", got, "product-7")
	}
	if got := domain.ProductIDFromError(domain.ErrUpstream); got != "" {
		t.Fatalf("expected empty product id for plain error, got %q", got)
	}
}
