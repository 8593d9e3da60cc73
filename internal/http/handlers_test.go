package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/prashant0268/shamyraweb/internal/cart"
	"github.com/prashant0268/shamyraweb/internal/catalog"
	"github.com/prashant0268/shamyraweb/internal/checkout"
	"github.com/prashant0268/shamyraweb/internal/domain"
	"github.com/prashant0268/shamyraweb/internal/localstore"
	"github.com/prashant0268/shamyraweb/internal/profile"
	"github.com/prashant0268/shamyraweb/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[int64]*domain.Product
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Lavender Dreams", Price: 24.99, Category: "scented", Featured: true, InStock: true},
		2: {ID: 2, Name: "Vanilla Bliss", Price: 22.99, Category: "scented", InStock: true},
		3: {ID: 3, Name: "Sold Out", Price: 9.99, Category: "seasonal", InStock: false},
	}}
}

func (f *fakeCatalog) GetAllProducts(context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalog) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListFeatured(context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range f.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: "all", Name: "All Candles"}}, nil
}

func (f *fakeCatalog) RunMigrations(string) error { return nil }
func (f *fakeCatalog) Close() error               { return nil }

type memRemote struct {
	mu    sync.Mutex
	carts map[string][]domain.LineItem
}

func (m *memRemote) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return &domain.Cart{UserID: userID, Items: slices.Clone(items)}, nil
}

func (m *memRemote) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.UserID] = slices.Clone(c.Items)
	return nil
}

type memLocal struct {
	mu    sync.Mutex
	blobs map[string][]domain.LineItem
}

func (m *memLocal) Get(_ context.Context, deviceID string) ([]domain.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.blobs[deviceID]
	if !ok {
		return nil, localstore.ErrNotFound
	}
	return slices.Clone(items), nil
}

func (m *memLocal) has(deviceID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[deviceID]
	return ok
}

func (m *memLocal) Set(_ context.Context, deviceID string, items []domain.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[deviceID] = slices.Clone(items)
	return nil
}

func (m *memLocal) Remove(_ context.Context, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, deviceID)
	return nil
}

type memOrderStore struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (m *memOrderStore) AppendOrder(_ context.Context, order *domain.Order) (string, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stamped := *order
	stamped.ID = "order-1"
	stamped.CreatedAt = time.Now().UTC()
	m.orders = append(m.orders, &stamped)
	return stamped.ID, stamped.CreatedAt, nil
}

func (m *memOrderStore) ListOrdersByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type memProfileStore struct{}

func (memProfileStore) SaveProfile(context.Context, string, domain.ProfileUpdate) error {
	return nil
}

func (memProfileStore) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	return &domain.Profile{UserID: userID}, nil
}

type testEnv struct {
	srv    *httptest.Server
	remote *memRemote
	local  *memLocal
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	remote := &memRemote{carts: make(map[string][]domain.LineItem)}
	local := &memLocal{blobs: make(map[string][]domain.LineItem)}
	registry := cart.NewRegistry(remote, local, log)
	t.Cleanup(registry.Close)

	cat := newFakeCatalog()
	router := NewRouter(
		RouterConfig{RequestTimeout: 5 * time.Second},
		NewCartHandler(registry, cat),
		NewProductHandler(cat),
		NewCheckoutHandler(registry, checkout.NewService(&memOrderStore{}, nil, log)),
		NewProfileHandler(profile.NewService(memProfileStore{}, log)),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, remote: remote, local: local}
}

func doJSON(t *testing.T, env *testEnv, method, path string, headers map[string]string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, env.srv.URL+path, &buf)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeCart(t *testing.T, resp *http.Response) CartResponseDTO {
	t.Helper()
	defer resp.Body.Close()
	var out CartResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func guestHeaders() map[string]string {
	return map[string]string{"X-Device-ID": "dev-test"}
}

func TestAddItem_ThenGetCart(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added := decodeCart(t, resp)
	require.Len(t, added.Items, 1)
	assert.Equal(t, "Lavender Dreams", added.Items[0].Name)
	assert.Equal(t, 2, added.Items[0].Quantity)

	resp = doJSON(t, srv, http.MethodGet, "/api/v1/cart/", guestHeaders(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeCart(t, resp)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 49.98, got.Total, 1e-9)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 999, Quantity: 1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddItem_OutOfStock(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 3, Quantity: 1})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 1, Quantity: 2})
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodPut, "/api/v1/cart/items/1", guestHeaders(), UpdateQuantityRequestDTO{Quantity: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeCart(t, resp)
	assert.Empty(t, got.Items)
}

func TestClearCart(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 1, Quantity: 1})
	resp.Body.Close()
	resp = doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 2, Quantity: 1})
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodDelete, "/api/v1/cart/", guestHeaders(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeCart(t, resp)
	assert.Empty(t, got.Items)
	assert.Zero(t, got.Count)
}

func TestCheckout_Unauthenticated(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 1, Quantity: 1})
	resp.Body.Close()

	resp = doJSON(t, srv, http.MethodPost, "/api/v1/checkout", guestHeaders(), CheckoutRequestDTO{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The cart must be untouched.
	resp2 := doJSON(t, srv, http.MethodGet, "/api/v1/cart/", guestHeaders(), nil)
	got := decodeCart(t, resp2)
	assert.Len(t, got.Items, 1)
}

func TestCheckout_Success_MergesGuestCartOnLogin(t *testing.T) {
	srv := newTestServer(t)

	// Guest fills the cart and the blob lands in the local store.
	resp := doJSON(t, srv, http.MethodPost, "/api/v1/cart/items", guestHeaders(), AddItemRequestDTO{ProductID: 1, Quantity: 1})
	resp.Body.Close()
	require.Eventually(t, func() bool {
		return srv.local.has("dev-test")
	}, 2*time.Second, 10*time.Millisecond, "guest cart was not persisted")

	// Same device logs in; the guest cart follows the account.
	authed := map[string]string{"X-Device-ID": "dev-test", "Authorization": "Bearer u1"}
	require.Eventually(t, func() bool {
		resp := doJSON(t, srv, http.MethodGet, "/api/v1/cart/", authed, nil)
		got := decodeCart(t, resp)
		return got.Loaded && len(got.Items) == 1
	}, 2*time.Second, 20*time.Millisecond, "guest cart did not merge after login")

	body := CheckoutRequestDTO{ShippingAddress: domain.ShippingAddress{
		FullName: "Jane Doe",
		Address:  "1 Candle Lane",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Phone:    "555-0101",
	}}
	resp = doJSON(t, srv, http.MethodPost, "/api/v1/checkout", authed, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	resp.Body.Close()
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	// Order appears in history; cart is cleared.
	resp = doJSON(t, srv, http.MethodGet, "/api/v1/orders", authed, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	resp.Body.Close()
	require.Len(t, orders, 1)

	resp = doJSON(t, srv, http.MethodGet, "/api/v1/cart/", authed, nil)
	got := decodeCart(t, resp)
	assert.Empty(t, got.Items)
}

func TestCheckout_EmptyCart_Rejected(t *testing.T) {
	srv := newTestServer(t)
	authed := map[string]string{"X-Device-ID": "dev-test", "Authorization": "Bearer u1"}

	require.Eventually(t, func() bool {
		resp := doJSON(t, srv, http.MethodGet, "/api/v1/cart/", authed, nil)
		return decodeCart(t, resp).Loaded
	}, 2*time.Second, 20*time.Millisecond)

	resp := doJSON(t, srv, http.MethodPost, "/api/v1/checkout", authed, CheckoutRequestDTO{ShippingAddress: domain.ShippingAddress{
		FullName: "Jane Doe", Address: "1 Candle Lane", City: "Springfield", State: "IL", ZipCode: "62701", Phone: "555-0101",
	}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProducts_FilterByCategory(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/api/v1/products?category=seasonal", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	require.Len(t, products, 1)
	assert.Equal(t, "Sold Out", products[0].Name)
}

func TestOrders_Unauthenticated(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/api/v1/orders", guestHeaders(), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
