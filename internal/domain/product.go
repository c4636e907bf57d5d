package domain

import "time"

// Product — товар каталога. Поле InStock меняется только через операцию
// резервирования склада, все остальные мутации проходят через CRUD каталога.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	IsActive   bool
	// InStock — доступный остаток; инвариант InStock >= 0 охраняется складом.
	InStock   int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) Validate() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceInvalid)
	}
	if p.InStock < 0 {
		errs = append(errs, ErrProductStockInvalid)
	}

	return errs
}

// ProductSnapshot — срез состояния товара, полученный от каталога в момент
// оформления заказа. Цена из снапшота фиксируется в позиции заказа и позже
// не перечитывается.
type ProductSnapshot struct {
	ID         string
	Name       string
	PriceMinor int64
	InStock    int32
	IsActive   bool
}
