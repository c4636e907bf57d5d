package domain

import "context"

// ProductRepository описывает требования к хранилищу товаров каталога.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrProductExists при конфликте ID или имени.
	Create(ctx context.Context, product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound, если его нет.
	Get(ctx context.Context, id string) (Product, error)
	// ListActive возвращает активные товары с опциональным ограничением на количество.
	ListActive(ctx context.Context, limit int) ([]Product, error)
	// Reserve атомарно уменьшает остаток товара на qty, если его достаточно.
	// Проверка и уменьшение выполняются в одной критической секции на товар:
	// конкурентные резервы одного товара сериализуются. Возвращает новый остаток,
	// ErrProductNotFound или ErrInsufficientStock (состояние не меняется).
	Reserve(ctx context.Context, productID string, qty int32) (int32, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе с позициями одной атомарной записью.
	// Возвращает ErrOrderExists, если запись с таким ID уже существует.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// ListByBuyer возвращает заказы покупателя, новые первыми, с опциональным лимитом.
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]Order, error)
}

// CatalogGateway — исходящий клиент сервиса каталога, используемый оркестратором
// оформления заказа. Оба вызова ограничены таймаутом; таймаут или сетевая ошибка
// никогда не превращаются в бесконечное ожидание.
type CatalogGateway interface {
	// FetchProduct возвращает срез товара или ErrProductNotFound, если каталог
	// ответил чем-то кроме успеха.
	FetchProduct(ctx context.Context, productID string) (ProductSnapshot, error)
	// ReserveStock резервирует количество от имени действующего покупателя.
	// Исходный заголовок авторизации пробрасывается без изменений: шлюз никогда
	// не подставляет собственные сервисные учётные данные.
	ReserveStock(ctx context.Context, productID string, qty int32, authHeader string) (ReservationOutcome, error)
}

// IdentityVerifier проверяет учётные данные запроса у внешнего сервиса
// аутентификации и возвращает идентификатор действующего пользователя.
type IdentityVerifier interface {
	// Verify возвращает ID пользователя или ErrUnauthenticated.
	Verify(ctx context.Context, authHeader string) (string, error)
}
