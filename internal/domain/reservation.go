package domain

// ReservationStatus отражает исход попытки резервирования товара на складе.
type ReservationStatus string

const (
	// ReservationReserved — остаток успешно уменьшен на запрошенное количество.
	ReservationReserved ReservationStatus = "reserved"
	// ReservationNotFound — товара с таким идентификатором нет.
	ReservationNotFound ReservationStatus = "not_found"
	// ReservationInsufficient — доступного остатка меньше запрошенного; состояние не менялось.
	ReservationInsufficient ReservationStatus = "insufficient_stock"
	// ReservationTransientFailure — удалённый вызов не дал определённого ответа
	// (таймаут, сеть, неожиданный статус).
	ReservationTransientFailure ReservationStatus = "transient_failure"
)

// ReservationOutcome — результат резервирования. Remaining заполнен только
// при статусе ReservationReserved.
type ReservationOutcome struct {
	Status    ReservationStatus
	Remaining int32
}

// ReservationRequest описывает запрос на резервирование одной позиции.
type ReservationRequest struct {
	ProductID string
	Qty       int32
}

// Validate проверяет запрос до входа в критическую секцию склада.
func (r *ReservationRequest) Validate() []error {
	var errs []error

	if r.ProductID == "" {
		errs = append(errs, ErrProductNotFound)
	}
	if r.Qty <= 0 {
		errs = append(errs, ErrReservationQtyInvalid)
	}

	return errs
}

// RequestedItem — позиция входящего запроса на оформление заказа.
type RequestedItem struct {
	ProductID string
	Qty       int32
}
