package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
	"github.com/vladislavdragonenkov/ecommerce/internal/service/stock"
)

// ProductsHandler обслуживает HTTP API сервиса каталога, включая endpoint
// резервирования остатка.
type ProductsHandler struct {
	products domain.ProductRepository
	ledger   *stock.Ledger
	verifier domain.IdentityVerifier
	logger   *log.Entry
}

// NewProductsHandler конструирует handler с зависимостями.
func NewProductsHandler(
	products domain.ProductRepository,
	ledger *stock.Ledger,
	verifier domain.IdentityVerifier,
	logger *log.Entry,
) *ProductsHandler {
	if logger == nil {
		logger = log.New().WithField("component", "products-handler")
	}
	return &ProductsHandler{
		products: products,
		ledger:   ledger,
		verifier: verifier,
		logger:   logger,
	}
}

// Register монтирует маршруты каталога. Чтение открыто всем, запись и
// резервирование требуют аутентификации.
func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products/", h.listProducts)
	r.Get("/products/{id}/", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.verifier, h.logger))
		r.Post("/products/", h.createProduct)
		r.Post("/products/{id}/reserve/", h.reserveStock)
	})
}

type productView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsActive    bool   `json:"is_active"`
	InStock     int32  `json:"in_stock"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       domain.FormatMinor(p.PriceMinor),
		IsActive:    p.IsActive,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339Nano),
	}
}

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsActive    *bool  `json:"is_active"`
	InStock     int32  `json:"in_stock"`
}

// reserveRequest принимает количество через указатель, чтобы отличать
// отсутствующее поле от нуля.
type reserveRequest struct {
	Quantity *int32 `json:"quantity"`
}

// listProducts — GET /products/: только активные товары.
func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListActive(r.Context(), 0)
	if err != nil {
		h.logger.WithError(err).Error("list products failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

// getProduct — GET /products/{id}/: неактивный товар неотличим от отсутствующего.
func (h *ProductsHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	product, err := h.products.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeDetail(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.WithError(err).WithField("product_id", productID).Error("get product failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !product.IsActive {
		writeDetail(w, http.StatusNotFound, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, toProductView(product))
}

// createProduct — POST /products/: создание товара.
func (h *ProductsHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	priceMinor, err := domain.ParsePrice(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid price")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  priceMinor,
		IsActive:    isActive,
		InStock:     req.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if errs := product.Validate(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errs[0].Error())
		return
	}

	if err := h.products.Create(r.Context(), product); err != nil {
		if errors.Is(err, domain.ErrProductExists) {
			writeError(w, http.StatusBadRequest, "Product with this name already exists")
			return
		}
		h.logger.WithError(err).Error("create product failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toProductView(product))
}

// reserveStock — POST /products/{id}/reserve/: атомарное списание остатка.
// Контракт статусов: 200 с остатком, 400 невалидное количество, 404 нет
// товара, 409 нехватка остатка.
func (h *ProductsHandler) reserveStock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid quantity")
		return
	}
	if req.Quantity == nil || *req.Quantity <= 0 {
		writeDetail(w, http.StatusBadRequest, "Invalid quantity")
		return
	}

	remaining, err := h.ledger.Reserve(r.Context(), domain.ReservationRequest{
		ProductID: productID,
		Qty:       *req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReservationQtyInvalid):
			writeDetail(w, http.StatusBadRequest, "Invalid quantity")
		case errors.Is(err, domain.ErrProductNotFound):
			writeDetail(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, domain.ErrInsufficientStock):
			writeDetail(w, http.StatusConflict, "Insufficient stock")
		default:
			h.logger.WithError(err).WithField("product_id", productID).Error("reserve stock failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int32{"remaining_stock": remaining})
}
