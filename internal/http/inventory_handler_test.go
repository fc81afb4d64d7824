package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MFahim14/test-assignment/internal/inventory"
	"github.com/MFahim14/test-assignment/internal/metrics"
	"github.com/MFahim14/test-assignment/internal/transform"
)

type fakeRepo struct {
	mu      sync.Mutex
	items   map[string]int
	listErr error
	addErr  error
}

func (r *fakeRepo) List(ctx context.Context) ([]inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]inventory.Item, 0, len(r.items))
	for name, qty := range r.items {
		out = append(out, inventory.Item{Name: name, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRepo) Add(ctx context.Context, name string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return r.addErr
	}
	if _, ok := r.items[name]; ok {
		return inventory.ErrConflict
	}
	r.items[name] = quantity
	return nil
}

func (r *fakeRepo) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, name)
	return nil
}

func (r *fakeRepo) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; !ok {
		return inventory.ErrNotFound
	}
	r.items[name] = quantity
	return nil
}

type testServer struct {
	repo    *fakeRepo
	router  http.Handler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, initial map[string]int, delay time.Duration) *testServer {
	t.Helper()
	if initial == nil {
		initial = map[string]int{}
	}
	repo := &fakeRepo{items: initial}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	svc := inventory.NewService(repo, nil, m)
	rec := transform.NewRecorder(nil, transform.WithApplyDelay(delay), transform.WithObserver(m))
	h := NewHandler(svc, rec, nil)

	return &testServer{
		repo:    repo,
		router:  NewRouter(h, RouterOptions{Metrics: m, Gatherer: reg}),
		metrics: m,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	res := httptest.NewRecorder()
	s.router.ServeHTTP(res, req)
	return res
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response %q: %v", res.Body.String(), err)
	}
	return body
}

func TestHome(t *testing.T) {
	s := newTestServer(t, nil, 0)

	res := s.do(http.MethodGet, "/", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected plain text, got %q", ct)
	}
	if res.Body.Len() == 0 {
		t.Fatalf("expected liveness text")
	}
}

func TestFaviconAndHealth(t *testing.T) {
	s := newTestServer(t, nil, 0)

	if res := s.do(http.MethodGet, "/favicon.ico", ""); res.Code != http.StatusNoContent {
		t.Fatalf("favicon: expected 204, got %d", res.Code)
	}
	res := s.do(http.MethodGet, "/health", "")
	if res.Code != http.StatusOK || strings.TrimSpace(res.Body.String()) != "ok" {
		t.Fatalf("health: got %d %q", res.Code, res.Body.String())
	}
}

func TestListInventory(t *testing.T) {
	s := newTestServer(t, map[string]int{"widget": 5, "bolt": 2}, 0)

	res := s.do(http.MethodGet, "/inventory", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var items []inventory.Item
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []inventory.Item{{Name: "bolt", Quantity: 2}, {Name: "widget", Quantity: 5}}
	if len(items) != 2 || items[0] != want[0] || items[1] != want[1] {
		t.Fatalf("unexpected body: %+v", items)
	}
}

func TestListInventory_EmptyIsArray(t *testing.T) {
	s := newTestServer(t, nil, 0)

	res := s.do(http.MethodGet, "/inventory", "")
	if got := strings.TrimSpace(res.Body.String()); got != "[]" {
		t.Fatalf("expected [], got %q", got)
	}
}

func TestListInventory_StorageError(t *testing.T) {
	s := newTestServer(t, nil, 0)
	s.repo.listErr = errors.New("database is locked")

	res := s.do(http.MethodGet, "/inventory", "")
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["error"] != "internal error" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAddItem(t *testing.T) {
	s := newTestServer(t, nil, 0)

	res := s.do(http.MethodPost, "/add-item", `{"name":"widget","quantity":5}`)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	if body := decodeBody(t, res); body["message"] != "Item added" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if got := s.repo.items["widget"]; got != 5 {
		t.Fatalf("expected repo to store 5, got %d", got)
	}
}

func TestAddItem_DuplicateIsConflict(t *testing.T) {
	s := newTestServer(t, map[string]int{"widget": 1}, 0)

	res := s.do(http.MethodPost, "/add-item", `{"name":"widget","quantity":5}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["error"] != "Item already exists" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(s.repo.items) != 1 || s.repo.items["widget"] != 1 {
		t.Fatalf("store changed: %+v", s.repo.items)
	}
}

func TestAddItem_InvalidInput(t *testing.T) {
	cases := map[string]string{
		"malformed json":      `{invalid`,
		"empty body":          ``,
		"missing name":        `{"quantity":5}`,
		"missing quantity":    `{"name":"widget"}`,
		"empty name":          `{"name":"","quantity":5}`,
		"negative quantity":   `{"name":"widget","quantity":-1}`,
		"fractional quantity": `{"name":"widget","quantity":2.5}`,
		"string quantity":     `{"name":"widget","quantity":"7"}`,
		"trailing data":       `{"name":"widget","quantity":1} trailing`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, nil, 0)
			req := httptest.NewRequest(http.MethodPost, "/add-item", strings.NewReader(body))
			res := httptest.NewRecorder()
			s.router.ServeHTTP(res, req)

			if res.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", res.Code)
			}
			if b := decodeBody(t, res); b["error"] == nil || b["error"] == "" {
				t.Fatalf("expected error field, got %+v", b)
			}
			if len(s.repo.items) != 0 {
				t.Fatalf("invalid request mutated store: %+v", s.repo.items)
			}
		})
	}
}

func TestAddItem_StorageError(t *testing.T) {
	s := newTestServer(t, nil, 0)
	s.repo.addErr = errors.New("disk I/O error")

	res := s.do(http.MethodPost, "/add-item", `{"name":"widget","quantity":5}`)
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
}

func TestRemoveItem_AlwaysSucceeds(t *testing.T) {
	s := newTestServer(t, map[string]int{"widget": 5, "bolt": 1}, 0)

	for _, name := range []string{"ghost", "widget", "widget"} {
		res := s.do(http.MethodPost, "/remove-item", `{"name":"`+name+`"}`)
		if res.Code != http.StatusOK {
			t.Fatalf("remove %s: expected 200, got %d", name, res.Code)
		}
		if body := decodeBody(t, res); body["message"] != "Item removed" {
			t.Fatalf("unexpected body: %+v", body)
		}
	}
	if len(s.repo.items) != 1 || s.repo.items["bolt"] != 1 {
		t.Fatalf("unexpected store: %+v", s.repo.items)
	}
}

func TestRemoveItem_MalformedBody(t *testing.T) {
	s := newTestServer(t, map[string]int{"widget": 5}, 0)

	res := s.do(http.MethodPost, "/remove-item", `{"name":`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if len(s.repo.items) != 1 {
		t.Fatalf("store changed: %+v", s.repo.items)
	}
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestServer(t, map[string]int{"widget": 5}, 0)

	res := s.do(http.MethodPost, "/update-quantity", `{"name":"widget","quantity":9}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["message"] != "Quantity updated" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if s.repo.items["widget"] != 9 {
		t.Fatalf("quantity not updated: %+v", s.repo.items)
	}
}

func TestUpdateQuantity_NotFound(t *testing.T) {
	s := newTestServer(t, nil, 0)

	res := s.do(http.MethodPost, "/update-quantity", `{"name":"widget","quantity":9}`)
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["error"] != "Item not found" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(s.repo.items) != 0 {
		t.Fatalf("update created a record: %+v", s.repo.items)
	}
}

func TestListingReflectsMutations(t *testing.T) {
	s := newTestServer(t, nil, 0)

	if res := s.do(http.MethodPost, "/add-item", `{"name":"widget","quantity":5}`); res.Code != http.StatusCreated {
		t.Fatalf("add: %d", res.Code)
	}
	if res := s.do(http.MethodPost, "/update-quantity", `{"name":"widget","quantity":9}`); res.Code != http.StatusOK {
		t.Fatalf("update: %d", res.Code)
	}

	res := s.do(http.MethodGet, "/inventory", "")
	var items []inventory.Item
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0] != (inventory.Item{Name: "widget", Quantity: 9}) {
		t.Fatalf("unexpected listing: %+v", items)
	}
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(t, nil, 0)

	if res := s.do(http.MethodGet, "/add-item", ""); res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil, 0)
	s.do(http.MethodPost, "/add-item", `{"name":"widget","quantity":5}`)

	res := s.do(http.MethodGet, "/metrics", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	for _, want := range []string{
		`inventory_server_inventory_mutations_total{op="add",outcome="ok"} 1`,
		`inventory_server_http_requests_total{method="POST",route="/add-item",status="201"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
