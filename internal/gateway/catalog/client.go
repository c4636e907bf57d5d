package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

// defaultTimeout ограничивает каждый исходящий вызов каталога.
const defaultTimeout = 3 * time.Second

// Client — исходящий HTTP-клиент сервиса каталога. Реализует domain.CatalogGateway:
// читает срез товара и резервирует остаток от имени действующего покупателя.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Entry
}

// NewClient создаёт клиент каталога с ограниченным таймаутом.
func NewClient(baseURL string, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-client")
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// productPayload — представление товара на проводе каталога.
type productPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	IsActive bool   `json:"is_active"`
	InStock  int32  `json:"in_stock"`
}

type reservePayload struct {
	Quantity int32 `json:"quantity"`
}

type reserveResponse struct {
	RemainingStock int32 `json:"remaining_stock"`
}

// FetchProduct возвращает срез товара. Любой ответ, кроме 200, трактуется как
// отсутствие товара; сетевая ошибка, таймаут и нечитаемое тело — как ErrUpstream,
// потому что недоступность каталога ничего не говорит о существовании товара.
func (c *Client) FetchProduct(ctx context.Context, productID string) (domain.ProductSnapshot, error) {
	url := fmt.Sprintf("%s/products/%s/", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProductSnapshot{}, fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("product_id", productID).Warn("fetch product failed")
		return domain.ProductSnapshot{}, domain.NewProductError(productID, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ProductSnapshot{}, domain.NewProductError(productID, domain.ErrProductNotFound)
	}

	var payload productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.WithError(err).WithField("product_id", productID).Warn("decode product payload failed")
		return domain.ProductSnapshot{}, domain.NewProductError(productID, domain.ErrUpstream)
	}

	priceMinor, err := domain.ParsePrice(payload.Price)
	if err != nil {
		c.logger.WithError(err).WithField("product_id", productID).Warn("invalid product price")
		return domain.ProductSnapshot{}, domain.NewProductError(productID, domain.ErrUpstream)
	}

	return domain.ProductSnapshot{
		ID:         payload.ID,
		Name:       payload.Name,
		PriceMinor: priceMinor,
		InStock:    payload.InStock,
		IsActive:   payload.IsActive,
	}, nil
}

// ReserveStock резервирует qty единиц товара, пробрасывая заголовок авторизации
// вызывающего без изменений. Статусы каталога транслируются в исходы:
// 200 → Reserved, 404 → NotFound, 409 → InsufficientStock, всё остальное и
// сетевые ошибки → TransientFailure.
func (c *Client) ReserveStock(ctx context.Context, productID string, qty int32, authHeader string) (domain.ReservationOutcome, error) {
	url := fmt.Sprintf("%s/products/%s/reserve/", c.baseURL, productID)

	body, err := json.Marshal(reservePayload{Quantity: qty})
	if err != nil {
		return domain.ReservationOutcome{}, fmt.Errorf("marshal reserve payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.ReservationOutcome{}, fmt.Errorf("build reserve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("product_id", productID).Warn("reserve stock call failed")
		return domain.ReservationOutcome{Status: domain.ReservationTransientFailure}, nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload reserveResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			c.logger.WithError(err).WithField("product_id", productID).Warn("decode reserve response failed")
			return domain.ReservationOutcome{Status: domain.ReservationTransientFailure}, nil
		}
		return domain.ReservationOutcome{Status: domain.ReservationReserved, Remaining: payload.RemainingStock}, nil
	case http.StatusNotFound:
		return domain.ReservationOutcome{Status: domain.ReservationNotFound}, nil
	case http.StatusConflict:
		return domain.ReservationOutcome{Status: domain.ReservationInsufficient}, nil
	default:
		c.logger.WithFields(log.Fields{
			"product_id": productID,
			"status":     resp.StatusCode,
		}).Warn("unexpected reserve status")
		return domain.ReservationOutcome{Status: domain.ReservationTransientFailure}, nil
	}
}

// Ping проверяет доступность сервиса каталога через его liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/livez", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping catalog: unexpected status %d", resp.StatusCode)
	}
	return nil
}

var _ domain.CatalogGateway = (*Client)(nil)
