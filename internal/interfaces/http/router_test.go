package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/application/analytics"
	"github.com/jhoicas/tikno-erp/internal/application/auth"
	"github.com/jhoicas/tikno-erp/internal/application/cart"
	"github.com/jhoicas/tikno-erp/internal/application/inventory"
	"github.com/jhoicas/tikno-erp/internal/application/sales"
	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/tikno-erp/internal/interfaces/http"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

type fakeRenderer struct{}

func (fakeRenderer) RenderSaleReceipt(_ context.Context, d *sales.SaleDetail, _ string, _ time.Time) ([]byte, error) {
	return []byte("%PDF-fake " + d.Sale.Total.StringFixed(2)), nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return assert.AnError }

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T, db apphttp.Pinger) *testAPI {
	t.Helper()
	return newTestAPIWithPolicy(t, db, access.DefaultPolicy())
}

func newTestAPIWithPolicy(t *testing.T, db apphttp.Pinger, policy *access.Policy) *testAPI {
	t.Helper()
	s := memory.NewStore()
	log := logger.Nop()
	workflow := sales.NewWorkflow(s, s.Sales(), s.Products(), s.Clients(), sales.WithGuard(policy), sales.WithLogger(log))

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 15, RefreshExpMinutes: 60, Issuer: testIssuer}),
		UserUC:     usecase.NewUserUseCase(s.Users()),
		ClientUC:   usecase.NewClientUseCase(s.Clients()),
		CategoryUC: usecase.NewCategoryUseCase(s.Categories()),
		ProductUC:  usecase.NewProductUseCase(s.Products(), s.Categories()),
		StockUC:    inventory.NewStockUseCase(s.Products(), log),
		CartUC:     cart.NewUseCase(s.Carts(), s.Products(), log),
		Workflow:   workflow,
		Receipts:   sales.NewReceiptUseCase(workflow, fakeRenderer{}, "TIKNO"),
		Dashboard:  analytics.NewDashboardUseCase(s.Analytics()),
		Policy:     policy,
		JWTSecret:  testJWTSecret,
		DB:         db,
	})
	return &testAPI{app: app, store: s}
}

func (a *testAPI) product(t *testing.T, name, price string, stock int) entity.ProductID {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, a.store.Products().Create(context.Background(), p))
	return p.ID
}

func (a *testAPI) stock(t *testing.T, id entity.ProductID) int {
	t.Helper()
	p, err := a.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

// do envía body como JSON (si no es nil) y decodifica la respuesta en out (si no es nil).
func (a *testAPI) do(t *testing.T, method, path, authHeader string, body, out interface{}) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type saleBody struct {
	ID    int64  `json:"id"`
	Total string `json:"total"`
	Fecha string `json:"fecha"`
	Items []struct {
		ProductID int64  `json:"producto_id"`
		Quantity  int    `json:"cantidad"`
		UnitPrice string `json:"precio_unitario"`
		Subtotal  string `json:"subtotal"`
	} `json:"items"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Sistema
// ──────────────────────────────────────────────────────────────────────────────

func TestWelcomeYHealth(t *testing.T) {
	api := newTestAPI(t, nil)

	var welcome map[string]interface{}
	assert.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/", "", nil, &welcome))
	assert.Equal(t, apphttp.Version, welcome["version"])
	assert.Equal(t, "active", welcome["status"])

	var health map[string]interface{}
	assert.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])
}

func TestHealth_BaseDeDatosCaida(t *testing.T) {
	api := newTestAPI(t, failingPinger{})

	var health map[string]interface{}
	assert.Equal(t, fiber.StatusServiceUnavailable, api.do(t, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "degraded", health["status"])
}

func TestRutaInexistente(t *testing.T) {
	api := newTestAPI(t, nil)

	var e errorBody
	assert.Equal(t, fiber.StatusNotFound, api.do(t, http.MethodGet, "/api/no-existe", "", nil, &e))
	assert.Equal(t, "ROUTE_NOT_FOUND", e.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearVenta(t *testing.T) {
	api := newTestAPI(t, nil)
	p1 := api.product(t, "Cuaderno", "10.50", 10)
	p2 := api.product(t, "Lápiz", "2.00", 5)

	var sale saleBody
	status := api.do(t, http.MethodPost, "/api/ventas", "", map[string]interface{}{
		"items": []map[string]interface{}{
			{"producto": p1, "cantidad": 2},
			{"producto": p2, "cantidad": "3", "precio_unitario": "1.50"},
		},
	}, &sale)
	require.Equal(t, fiber.StatusCreated, status)
	assert.NotZero(t, sale.ID)
	assert.Equal(t, "25.50", sale.Total)
	assert.Len(t, sale.Items, 2)
	assert.Equal(t, 8, api.stock(t, p1))
	assert.Equal(t, 2, api.stock(t, p2))

	var got saleBody
	require.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/api/ventas/"+itoa(sale.ID), "", nil, &got))
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, "25.50", got.Total)
}

func TestCrearVenta_StockInsuficiente(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "10.00", 1)

	var e errorBody
	status := api.do(t, http.MethodPost, "/api/ventas", "", map[string]interface{}{
		"items": []map[string]interface{}{{"producto": p, "cantidad": 2}},
	}, &e)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, 1, api.stock(t, p), "el stock no cambia si la venta falla")
}

func TestCrearVenta_Errores(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "10.00", 5)

	cases := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{"sin ítems", map[string]interface{}{"items": []interface{}{}}, fiber.StatusBadRequest, "EMPTY_ORDER"},
		{"cantidad cero", map[string]interface{}{"items": []map[string]interface{}{{"producto": p, "cantidad": 0}}}, fiber.StatusBadRequest, "INVALID_QUANTITY"},
		{"cantidad decimal", map[string]interface{}{"items": []map[string]interface{}{{"producto": p, "cantidad": 1.5}}}, fiber.StatusBadRequest, "INVALID_QUANTITY"},
		{"precio cero", map[string]interface{}{"items": []map[string]interface{}{{"producto": p, "cantidad": 1, "precio_unitario": 0}}}, fiber.StatusBadRequest, "INVALID_PRICE"},
		{"producto inexistente", map[string]interface{}{"items": []map[string]interface{}{{"producto": 999, "cantidad": 1}}}, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"cliente inexistente", map[string]interface{}{"cliente": "123", "items": []map[string]interface{}{{"producto": p, "cantidad": 1}}}, fiber.StatusNotFound, "CLIENT_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e errorBody
			assert.Equal(t, tc.status, api.do(t, http.MethodPost, "/api/ventas", "", tc.body, &e))
			assert.Equal(t, tc.code, e.Code)
		})
	}
	assert.Equal(t, 5, api.stock(t, p))
}

func TestVenta_NoEncontradaYEliminar(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "10.00", 5)

	var e errorBody
	assert.Equal(t, fiber.StatusNotFound, api.do(t, http.MethodGet, "/api/ventas/42", "", nil, &e))
	assert.Equal(t, fiber.StatusBadRequest, api.do(t, http.MethodGet, "/api/ventas/abc", "", nil, &e))

	var sale saleBody
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas", "", map[string]interface{}{
		"items": []map[string]interface{}{{"producto": p, "cantidad": 1}},
	}, &sale))

	assert.Equal(t, fiber.StatusNoContent, api.do(t, http.MethodDelete, "/api/ventas/"+itoa(sale.ID), "", nil, nil))
	assert.Equal(t, fiber.StatusNotFound, api.do(t, http.MethodGet, "/api/ventas/"+itoa(sale.ID), "", nil, &e))
	assert.Equal(t, fiber.StatusNotFound, api.do(t, http.MethodDelete, "/api/ventas/"+itoa(sale.ID), "", nil, &e))
}

func TestComprobante(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "10.00", 5)

	var sale saleBody
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas", "", map[string]interface{}{
		"items": []map[string]interface{}{{"producto": p, "cantidad": 2}},
	}, &sale))

	req := httptest.NewRequest(http.MethodGet, "/api/ventas/"+itoa(sale.ID)+"/comprobante", nil)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "venta_")
	assert.Equal(t, "%PDF-fake 20.00", string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCarrito_AgregarYProcesar(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "4.00", 10)

	var line map[string]interface{}
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/carrito", "",
		map[string]interface{}{"session_id": "s-1", "producto_id": p}, &line))
	assert.EqualValues(t, 1, line["cantidad"], "cantidad por defecto 1")

	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/carrito", "",
		map[string]interface{}{"session_id": "s-1", "producto_id": p, "cantidad": 2}, &line))
	assert.EqualValues(t, 3, line["cantidad"], "la misma línea acumula la cantidad")

	var cartOut struct {
		Items []map[string]interface{} `json:"items"`
		Total string                   `json:"total"`
	}
	require.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/api/carrito?session_id=s-1", "", nil, &cartOut))
	assert.Len(t, cartOut.Items, 1)
	assert.Equal(t, "12.00", cartOut.Total)

	var sale saleBody
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas/procesar_desde_carrito", "",
		map[string]interface{}{"session_id": "s-1"}, &sale))
	assert.Equal(t, "12.00", sale.Total)
	assert.Equal(t, 7, api.stock(t, p))

	require.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/api/carrito?session_id=s-1", "", nil, &cartOut))
	assert.Empty(t, cartOut.Items, "el carrito se vacía al confirmar la venta")

	var e errorBody
	assert.Equal(t, fiber.StatusBadRequest, api.do(t, http.MethodPost, "/api/ventas/procesar_desde_carrito", "",
		map[string]interface{}{"session_id": "s-1"}, &e))
	assert.Equal(t, "EMPTY_CART", e.Code)
}

func TestVenta_CrearSinPermisoDeLectura(t *testing.T) {
	policy, err := access.ParsePolicy("ventas.ver=admin")
	require.NoError(t, err)
	api := newTestAPIWithPolicy(t, nil, policy)
	p := api.product(t, "Café", "8.50", 5)

	var sale saleBody
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas", "",
		map[string]interface{}{"items": []map[string]interface{}{{"producto": p, "cantidad": 3}}}, &sale))
	assert.NotZero(t, sale.ID)
	assert.Equal(t, "25.50", sale.Total)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 3, sale.Items[0].Quantity)
	assert.Equal(t, 2, api.stock(t, p))

	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/carrito", tokenForRole(t, "staff"),
		map[string]interface{}{"session_id": "s-9", "producto_id": p, "cantidad": 2}, nil))
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas/procesar_desde_carrito", tokenForRole(t, "staff"),
		map[string]interface{}{"session_id": "s-9"}, &sale))
	assert.Equal(t, "17.00", sale.Total)
	assert.Equal(t, 0, api.stock(t, p))

	// La lectura posterior sí exige el rol configurado.
	path := "/api/ventas/" + itoa(sale.ID)
	var e errorBody
	assert.Equal(t, fiber.StatusUnauthorized, api.do(t, http.MethodGet, path, "", nil, &e))
	assert.Equal(t, fiber.StatusForbidden, api.do(t, http.MethodGet, path, tokenForRole(t, "staff"), nil, &e))
	assert.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, path, tokenForRole(t, "admin"), nil, &sale))
	assert.Equal(t, "17.00", sale.Total)
}

func TestCarrito_SinDueno(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "4.00", 10)

	var e errorBody
	assert.Equal(t, fiber.StatusBadRequest, api.do(t, http.MethodPost, "/api/carrito", "",
		map[string]interface{}{"producto_id": p}, &e))
	assert.Equal(t, "INVALID_OWNER", e.Code)

	assert.Equal(t, fiber.StatusBadRequest, api.do(t, http.MethodPost, "/api/carrito", "",
		map[string]interface{}{"session_id": "s-1"}, &e))
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestCarrito_UsuarioAutenticadoUsaSuCarrito(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "4.00", 10)
	token := tokenForRole(t, "Usuario")

	var line map[string]interface{}
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/carrito", token,
		map[string]interface{}{"producto_id": p, "cantidad": 2}, &line))
	assert.Equal(t, testUserID, line["usuario_id"])

	var sale saleBody
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas/procesar_desde_carrito", token,
		map[string]interface{}{}, &sale))
	assert.Equal(t, "8.00", sale.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo e inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestProductos_Politica(t *testing.T) {
	api := newTestAPI(t, nil)
	body := map[string]interface{}{"nombre": "Cuaderno", "precio": "3.50", "stock": 4}

	var e errorBody
	assert.Equal(t, fiber.StatusUnauthorized, api.do(t, http.MethodPost, "/api/productos", "", body, &e))
	assert.Equal(t, fiber.StatusForbidden, api.do(t, http.MethodPost, "/api/productos", tokenForRole(t, "Usuario"), body, &e))

	var created map[string]interface{}
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/productos", tokenForRole(t, "admin"), body, &created))
	assert.Equal(t, "Cuaderno", created["nombre"])
	assert.Equal(t, "3.50", created["precio"])

	var list map[string]interface{}
	assert.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/api/productos", "", nil, &list), "el catálogo se lee sin token")
}

func TestInventario_IncrementarYDecrementar(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "4.00", 3)
	admin := tokenForRole(t, "admin")
	base := "/api/productos/" + itoa(int64(p)) + "/stock/"

	var mv map[string]interface{}
	require.Equal(t, fiber.StatusOK, api.do(t, http.MethodPost, base+"incrementar", admin, map[string]interface{}{"cantidad": 5}, &mv))
	assert.EqualValues(t, 8, mv["stock"])

	var e errorBody
	assert.Equal(t, fiber.StatusBadRequest, api.do(t, http.MethodPost, base+"decrementar", admin, map[string]interface{}{"cantidad": 9}, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, 8, api.stock(t, p))

	assert.Equal(t, fiber.StatusForbidden, api.do(t, http.MethodPost, base+"decrementar", tokenForRole(t, "Usuario"), map[string]interface{}{"cantidad": 1}, &e))
}

func TestClientes_Duplicado(t *testing.T) {
	api := newTestAPI(t, nil)
	token := tokenForRole(t, "Usuario")
	body := map[string]interface{}{"cedula": "1010", "nombre": "Ana", "email": "ana@tikno.test"}

	var out map[string]interface{}
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/clientes", token, body, &out))

	var e errorBody
	assert.Equal(t, fiber.StatusConflict, api.do(t, http.MethodPost, "/api/clientes", token, body, &e))

	var sale saleBody
	p := api.product(t, "Cuaderno", "4.00", 3)
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas", "", map[string]interface{}{
		"cliente": "1010",
		"items":   []map[string]interface{}{{"producto": p, "cantidad": 1}},
	}, &sale))

	var list []saleBody
	require.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/api/ventas?cliente=1010", "", nil, &list))
	assert.Len(t, list, 1)
}

func TestResumenVentas(t *testing.T) {
	api := newTestAPI(t, nil)
	p := api.product(t, "Cuaderno", "4.00", 10)

	var sale saleBody
	require.Equal(t, fiber.StatusCreated, api.do(t, http.MethodPost, "/api/ventas", "", map[string]interface{}{
		"items": []map[string]interface{}{{"producto": p, "cantidad": 3}},
	}, &sale))

	var out struct {
		TodayCount  int    `json:"ventas_hoy"`
		TodaySales  string `json:"total_hoy"`
		TopProducts []struct {
			Name string `json:"producto_nombre"`
		} `json:"top_productos"`
	}
	require.Equal(t, fiber.StatusOK, api.do(t, http.MethodGet, "/api/ventas/resumen", "", nil, &out))
	assert.Equal(t, 1, out.TodayCount)
	assert.Equal(t, "12.00", out.TodaySales)
	require.Len(t, out.TopProducts, 1)
	assert.Equal(t, "Cuaderno", out.TopProducts[0].Name)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
