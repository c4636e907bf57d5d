package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора покупателя.
	ErrBuyerRequired = errors.New("buyer_id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain items")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("total_amount must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists сигнализирует о попытке повторного создания заказа с тем же ID.
	ErrOrderExists = errors.New("order already exists")

	// ErrProductNotFound — товар отсутствует в каталоге (или неактивен).
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists — товар с таким именем или ID уже существует.
	ErrProductExists = errors.New("product already exists")
	// ErrProductNameRequired — у товара не задано имя.
	ErrProductNameRequired = errors.New("product name is required")
	// ErrProductPriceInvalid — отрицательная цена товара.
	ErrProductPriceInvalid = errors.New("product price must be non-negative")
	// ErrProductStockInvalid — отрицательный остаток товара.
	ErrProductStockInvalid = errors.New("product stock must be non-negative")

	// ErrInsufficientStock — бизнес-отказ склада: запрошенного количества нет в наличии.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrReservationQtyInvalid — некорректное количество в запросе на резервирование.
	ErrReservationQtyInvalid = errors.New("reservation quantity must be greater than zero")
	// ErrUpstream — временная ошибка при обращении к удалённому сервису (таймаут,
	// сеть, неожиданный статус). Вызывающий может повторить весь запрос целиком.
	ErrUpstream = errors.New("upstream service error")

	// ErrUnauthenticated — запрос без валидных учётных данных.
	ErrUnauthenticated = errors.New("authentication required")
)

// ProductError привязывает ошибку к конкретному товару, чтобы транспортный слой
// мог назвать виновную позицию в ответе клиенту.
type ProductError struct {
	ProductID string
	Err       error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("product %s: %v", e.ProductID, e.Err)
}

func (e *ProductError) Unwrap() error {
	return e.Err
}

// NewProductError оборачивает ошибку с указанием товара.
func NewProductError(productID string, err error) *ProductError {
	return &ProductError{ProductID: productID, Err: err}
}

// ProductIDFromError извлекает идентификатор товара из цепочки ошибок, если он там есть.
func ProductIDFromError(err error) string {
	var pe *ProductError
	if errors.As(err, &pe) {
		return pe.ProductID
	}
	return ""
}
