package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/infrastructure/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testHandlerConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			CookieName: "session_id",
			TTL:        time.Hour,
		},
	}
}

func setupCartRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&product.Product{}))

	cfg := testHandlerConfig()
	handler := NewCartHandler(db, session.NewMemoryStore(), cfg)

	router := gin.New()
	router.GET("/cart", handler.GetCart)
	router.GET("/cart/summary", handler.GetCartSummary)
	router.POST("/cart/items/:id", handler.AddToCart)
	router.PUT("/cart/items/:id", handler.UpdateCartItem)
	router.DELETE("/cart/items/:id", handler.RemoveFromCart)
	router.POST("/cart/update/:id", handler.UpdateCartItemForm)
	router.POST("/products/:id/add", handler.AddToCartForm)

	return router, db
}

func seedHandlerProduct(t *testing.T, db *gorm.DB, id uint, name, price string) {
	t.Helper()
	require.NoError(t, db.Create(&product.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  10,
		Status: product.StatusActive,
	}).Error)
}

func doJSON(router *gin.Engine, method, path string, body interface{}, cookie string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doForm(router *gin.Engine, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAddToCartStrictPath(t *testing.T) {
	router, db := setupCartRouter(t)
	seedHandlerProduct(t, db, 7, "Teapot", "12.50")

	w := doJSON(router, http.MethodPost, "/cart/items/7", gin.H{"quantity": 2}, "visitor-1")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["cart_count"])
	assert.Equal(t, float64(2), body["item_qty"])
}

func TestAddToCartStrictRejectsBadQuantity(t *testing.T) {
	router, db := setupCartRouter(t)
	seedHandlerProduct(t, db, 7, "Teapot", "12.50")

	w := doJSON(router, http.MethodPost, "/cart/items/7", gin.H{"quantity": 0}, "visitor-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/cart/items/7", gin.H{"quantity": "two"}, "visitor-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was added
	w = doJSON(router, http.MethodGet, "/cart/summary", nil, "visitor-1")
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["cart_count"])
}

func TestAddToCartUnknownProduct(t *testing.T) {
	router, _ := setupCartRouter(t)

	w := doJSON(router, http.MethodPost, "/cart/items/404", gin.H{"quantity": 1}, "visitor-1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddToCartFormDefaultsQuantityAndRedirects(t *testing.T) {
	router, db := setupCartRouter(t)
	seedHandlerProduct(t, db, 7, "Teapot", "12.50")

	w := doForm(router, "/products/7/add", url.Values{"quantity": {"garbage"}}, "visitor-1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/cart", w.Header().Get("Location"))

	w = doJSON(router, http.MethodGet, "/cart/summary", nil, "visitor-1")
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["cart_count"])
}

func TestUpdateCartItemStrictUnknownId(t *testing.T) {
	router, _ := setupCartRouter(t)

	w := doJSON(router, http.MethodPut, "/cart/items/5", gin.H{"quantity": 2}, "visitor-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Item not in cart", body["error"])
}

func TestUpdateCartItemStrictRemoveUnknownId(t *testing.T) {
	router, _ := setupCartRouter(t)

	w := doJSON(router, http.MethodPut, "/cart/items/5", gin.H{"action": "remove"}, "visitor-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Item not in cart", body["error"])
}

func TestUpdateCartItemStrictRemovePresentLine(t *testing.T) {
	router, db := setupCartRouter(t)
	seedHandlerProduct(t, db, 4, "Vase", "18.00")

	w := doJSON(router, http.MethodPost, "/cart/items/4", gin.H{"quantity": 1}, "visitor-1")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, "/cart/items/4", gin.H{"action": "remove"}, "visitor-1")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["removed"])
	assert.Equal(t, float64(0), body["cart_count"])
}

func TestUpdateCartItemFormIgnoresUnknownId(t *testing.T) {
	router, _ := setupCartRouter(t)

	w := doForm(router, "/cart/update/5", url.Values{"quantity": {"2"}}, "visitor-1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestUpdateCartItemZeroRemoves(t *testing.T) {
	router, db := setupCartRouter(t)
	seedHandlerProduct(t, db, 3, "Kettle", "30.00")

	w := doJSON(router, http.MethodPost, "/cart/items/3", gin.H{"quantity": 1}, "visitor-1")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, "/cart/items/3", gin.H{"quantity": 0}, "visitor-1")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["removed"])
	assert.Equal(t, float64(0), body["cart_count"])
}

func TestRemoveFromCart(t *testing.T) {
	router, db := setupCartRouter(t)
	seedHandlerProduct(t, db, 3, "Kettle", "30.00")

	w := doJSON(router, http.MethodPost, "/cart/items/3", gin.H{"quantity": 2}, "visitor-1")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/cart/items/3", nil, "visitor-1")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["removed"])
	assert.Equal(t, float64(0), body["cart_count"])
}

func TestGetCartAssignsSessionCookie(t *testing.T) {
	router, _ := setupCartRouter(t)

	w := doJSON(router, http.MethodGet, "/cart", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "session_id" && cookie.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a session cookie to be set")
}
