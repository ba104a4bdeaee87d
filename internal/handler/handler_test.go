package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hedge-analytics/internal/models"
	"github.com/hedge-analytics/internal/service"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestPaginationDefaults(t *testing.T) {
	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 20},
		{"?page=3&page_size=50", 3, 50},
		{"?page=0&page_size=0", 1, 20},
		{"?page=-2&page_size=1000", 1, 20},
		{"?page=abc&page_size=xyz", 1, 20},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/analysis"+tc.query, nil)

		page, pageSize := pagination(c)
		assert.Equal(t, tc.page, page, "query %q", tc.query)
		assert.Equal(t, tc.pageSize, pageSize, "query %q", tc.query)
	}
}

// Binding failures must reject the request before any service call;
// handlers with no backing service stay safe for these cases.
func TestRegisterValidation(t *testing.T) {
	h := NewAuthHandler(nil)
	router := gin.New()
	router.POST("/register", h.Register)

	cases := []string{
		`{}`,
		`{"username":"ab","email":"a@b.com","password":"longenough"}`,
		`{"username":"alice","email":"not-an-email","password":"longenough"}`,
		`{"username":"alice","email":"a@b.com","password":"short"}`,
		`not json`,
	}

	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	h := NewAccountHandler(nil)
	router := gin.New()
	router.POST("/account/password", h.ChangePassword)

	cases := []string{
		`{}`,
		`{"old_password":"current"}`,
		`{"old_password":"current","new_password":"short"}`,
		`not json`,
	}

	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/account/password", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

// stubMarketData serves canned prices or a canned error
type stubMarketData struct {
	points []models.PricePoint
	price  float64
	err    error
}

func (s *stubMarketData) GetPriceSeries(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	return s.points, s.err
}

func (s *stubMarketData) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	return s.price, s.err
}

func marketRequest(h *MarketHandler, path string) *httptest.ResponseRecorder {
	router := gin.New()
	rg := router.Group("/api/v1")
	h.RegisterRoutes(rg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestMarketPricesUnknownSymbol(t *testing.T) {
	h := NewMarketHandler(&stubMarketData{err: service.ErrNoPriceData}, []string{"lithium_carbonate"})

	w := marketRequest(h, "/api/v1/market/unknown/prices")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = marketRequest(h, "/api/v1/market/unknown/latest")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarketPricesBackendFailure(t *testing.T) {
	h := NewMarketHandler(&stubMarketData{err: errors.New("redis down")}, []string{"lithium_carbonate"})

	w := marketRequest(h, "/api/v1/market/lithium_carbonate/prices")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMarketLatest(t *testing.T) {
	h := NewMarketHandler(&stubMarketData{price: 95000}, []string{"lithium_carbonate"})

	w := marketRequest(h, "/api/v1/market/lithium_carbonate/latest")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "95000")
}

func TestResetConfirmValidation(t *testing.T) {
	h := NewAuthHandler(nil)
	router := gin.New()
	router.POST("/reset/confirm", h.ConfirmReset)

	cases := []string{
		`{}`,
		`{"username":"alice","reset_code":"12345","new_password":"longenough"}`,
		`{"username":"alice","reset_code":"1234567","new_password":"longenough"}`,
		`{"username":"alice","reset_code":"123456","new_password":"short"}`,
	}

	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/reset/confirm", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}
