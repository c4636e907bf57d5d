package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
// Мьютекс выполняет роль построчной блокировки: проверка остатка и его
// уменьшение в Reserve происходят в одной критической секции, поэтому
// конкурентные резервы одного товара сериализуются.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
	// names охраняет уникальность имени товара.
	names map[string]string
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
		names: make(map[string]string),
	}
}

// Create сохраняет новый товар, если ID и имя ещё не заняты.
func (r *productRepositoryInMemory) Create(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrProductExists
	}
	if _, exists := r.names[product.Name]; exists {
		return domain.ErrProductExists
	}
	r.items[product.ID] = product
	r.names[product.Name] = product.ID
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// ListActive возвращает активные товары, ограничивая выборку limit (если >0).
func (r *productRepositoryInMemory) ListActive(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if !product.IsActive {
			continue
		}
		result = append(result, product)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Reserve атомарно уменьшает остаток товара. Проверка и запись выполняются
// под одним мьютексом, поэтому два конкурентных резерва, которые по
// отдельности помещаются в остаток, но вместе превышают его, не пройдут оба.
func (r *productRepositoryInMemory) Reserve(_ context.Context, productID string, qty int32) (int32, error) {
	if qty <= 0 {
		return 0, domain.ErrReservationQtyInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if product.InStock < qty {
		return 0, domain.ErrInsufficientStock
	}

	product.InStock -= qty
	product.UpdatedAt = time.Now().UTC()
	r.items[productID] = product
	return product.InStock, nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
