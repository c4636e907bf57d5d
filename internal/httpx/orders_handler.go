package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
	"github.com/vladislavdragonenkov/ecommerce/internal/service/placement"
)

const defaultListOrdersLimit = 100

// OrdersHandler обслуживает HTTP API сервиса заказов.
type OrdersHandler struct {
	orchestrator placement.Orchestrator
	orders       domain.OrderRepository
	verifier     domain.IdentityVerifier
	logger       *log.Entry
}

// NewOrdersHandler конструирует handler с зависимостями.
func NewOrdersHandler(
	orchestrator placement.Orchestrator,
	orders domain.OrderRepository,
	verifier domain.IdentityVerifier,
	logger *log.Entry,
) *OrdersHandler {
	if logger == nil {
		logger = log.New().WithField("component", "orders-handler")
	}
	return &OrdersHandler{
		orchestrator: orchestrator,
		orders:       orders,
		verifier:     verifier,
		logger:       logger,
	}
}

// Register монтирует маршруты заказов; все они требуют аутентификации.
func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.verifier, h.logger))
		r.Post("/orders", h.placeOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
	})
}

type orderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type placeOrderRequest struct {
	Items []orderItemInput `json:"items"`
}

type orderItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Price     string `json:"price"`
	CreatedAt string `json:"created_at"`
}

type orderView struct {
	ID          string          `json:"id"`
	BuyerID     string          `json:"buyer_id"`
	Items       []orderItemView `json:"items"`
	TotalAmount string          `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

func toOrderView(order domain.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Qty,
			Price:     domain.FormatMinor(item.PriceMinor),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return orderView{
		ID:          order.ID,
		BuyerID:     order.BuyerID,
		Items:       items,
		TotalAmount: domain.FormatMinor(order.AmountMinor),
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   order.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// placeOrder — POST /orders: оформление заказа действующим покупателем.
func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerFromContext(r.Context())
	authHeader := authHeaderFromContext(r.Context())

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]domain.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.RequestedItem{ProductID: item.ProductID, Qty: item.Quantity})
	}

	order, err := h.orchestrator.PlaceOrder(r.Context(), buyerID, items, authHeader)
	if err != nil {
		h.logger.WithError(err).WithField("buyer_id", buyerID).Warn("place order rejected")
		writePlacementError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderView(order))
}

// listOrders — GET /orders: заказы действующего покупателя, новые первыми.
func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerFromContext(r.Context())

	limit := defaultListOrdersLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	orders, err := h.orders.ListByBuyer(r.Context(), buyerID, limit)
	if err != nil {
		h.logger.WithError(err).WithField("buyer_id", buyerID).Error("list orders failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}
	writeJSON(w, http.StatusOK, views)
}

// getOrder — GET /orders/{id}: заказ виден только своему покупателю.
func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		h.logger.WithError(err).WithField("order_id", orderID).Error("get order failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	// Чужой заказ неотличим от несуществующего.
	if order.BuyerID != buyerID {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	writeJSON(w, http.StatusOK, toOrderView(order))
}
