package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeDetail использует формат тела каталога: {"detail": "..."}.
func writeDetail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"detail": message})
}

// writePlacementError транслирует ошибку оформления заказа в HTTP-ответ.
// Отсутствие товара в каталоге намеренно отдаётся как 400, а не 404: для
// клиента это дефект тела запроса, а не адресации.
func writePlacementError(w http.ResponseWriter, err error) {
	productID := domain.ProductIDFromError(err)

	switch {
	case errors.Is(err, domain.ErrItemsRequired):
		writeError(w, http.StatusBadRequest, "Order must contain items")
	case errors.Is(err, domain.ErrItemQtyInvalid):
		writeError(w, http.StatusBadRequest, "Item quantity must be greater than zero")
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Product %s not found", productID))
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for product %s", productID))
	case errors.Is(err, domain.ErrUpstream):
		writeError(w, http.StatusInternalServerError, "Error reserving stock")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
