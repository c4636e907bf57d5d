package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
	"github.com/vladislavdragonenkov/ecommerce/internal/httpx"
	"github.com/vladislavdragonenkov/ecommerce/internal/service/stock"
	"github.com/vladislavdragonenkov/ecommerce/internal/storage/memory"
)

// stubVerifier принимает токен "Bearer <id>" и возвращает <id>.
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, authHeader string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) || len(authHeader) == len(prefix) {
		return "", domain.ErrUnauthenticated
	}
	return strings.TrimPrefix(authHeader, prefix), nil
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func newCatalogServer(t *testing.T) (*httptest.Server, domain.ProductRepository) {
	t.Helper()

	products := memory.NewProductRepository()
	ledger := stock.NewLedgerWithoutMetrics(products, loggerForTests())
	handler := httpx.NewProductsHandler(products, ledger, stubVerifier{}, loggerForTests())

	router := httpx.NewRouter()
	handler.Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, products
}

func seedCatalogProduct(t *testing.T, repo domain.ProductRepository, id string, stockQty int32, active bool) {
	t.Helper()

	now := time.Now().UTC()
	err := repo.Create(context.Background(), domain.Product{
		ID:         id,
		Name:       "Product " + id,
		PriceMinor: 999,
		IsActive:   active,
		InStock:    stockQty,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)
}

func TestProducts_GetAndList(t *testing.T) {
	srv, products := newCatalogServer(t)
	seedCatalogProduct(t, products, "product-1", 5, true)
	seedCatalogProduct(t, products, "product-2", 3, false)

	resp, err := http.Get(srv.URL + "/products/product-1/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		ID      string `json:"id"`
		Price   string `json:"price"`
		InStock int32  `json:"in_stock"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Equal(t, "product-1", view.ID)
	require.Equal(t, "9.99", view.Price)
	require.Equal(t, int32(5), view.InStock)

	// Неактивный товар недоступен для чтения.
	resp2, err := http.Get(srv.URL + "/products/product-2/")
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)

	// Список содержит только активные товары.
	resp3, err := http.Get(srv.URL + "/products/")
	require.NoError(t, err)
	defer resp3.Body.Close()
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&list))
	require.Len(t, list, 1)
}

func TestProducts_Create(t *testing.T) {
	srv, _ := newCatalogServer(t)

	body := `{"name":"Keyboard","description":"mech","price":"49.90","in_stock":7}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/products/", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer admin-1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view struct {
		ID       string `json:"id"`
		Price    string `json:"price"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.NotEmpty(t, view.ID)
	require.Equal(t, "49.90", view.Price)
	require.True(t, view.IsActive)
}

func TestProducts_CreateRequiresAuth(t *testing.T) {
	srv, _ := newCatalogServer(t)

	resp, err := http.Post(srv.URL+"/products/", "application/json", strings.NewReader(`{"name":"X","price":"1.00"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProducts_Reserve(t *testing.T) {
	srv, products := newCatalogServer(t)
	seedCatalogProduct(t, products, "product-1", 5, true)

	resp := doReserve(t, srv, "product-1", `{"quantity":2}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		RemainingStock int32 `json:"remaining_stock"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, int32(3), payload.RemainingStock)
}

func TestProducts_ReserveStatusContract(t *testing.T) {
	srv, products := newCatalogServer(t)
	seedCatalogProduct(t, products, "product-1", 2, true)

	cases := []struct {
		name      string
		productID string
		body      string
		want      int
	}{
		{"missing quantity", "product-1", `{}`, http.StatusBadRequest},
		{"zero quantity", "product-1", `{"quantity":0}`, http.StatusBadRequest},
		{"negative quantity", "product-1", `{"quantity":-2}`, http.StatusBadRequest},
		{"bad json", "product-1", `{`, http.StatusBadRequest},
		{"unknown product", "ghost", `{"quantity":1}`, http.StatusNotFound},
		{"insufficient", "product-1", `{"quantity":3}`, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doReserve(t, srv, tc.productID, tc.body)
			resp.Body.Close()
			require.Equal(t, tc.want, resp.StatusCode)
		})
	}

	// Ни один из отказов не изменил остаток.
	p, err := products.Get(context.Background(), "product-1")
	require.NoError(t, err)
	require.Equal(t, int32(2), p.InStock)
}

func TestProducts_ReserveRequiresAuth(t *testing.T) {
	srv, products := newCatalogServer(t)
	seedCatalogProduct(t, products, "product-1", 5, true)

	resp, err := http.Post(srv.URL+"/products/product-1/reserve/", "application/json", strings.NewReader(`{"quantity":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func doReserve(t *testing.T, srv *httptest.Server, productID, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/products/"+productID+"/reserve/", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer buyer-1")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
