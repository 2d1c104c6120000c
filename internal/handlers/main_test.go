package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/esteticafabiane/clinic-api/internal/cache"
	"github.com/esteticafabiane/clinic-api/internal/config"
	"github.com/esteticafabiane/clinic-api/internal/db"
	"github.com/esteticafabiane/clinic-api/internal/models"
	"github.com/esteticafabiane/clinic-api/internal/routes"
)

// Cada teste sobe a API completa sobre um sqlite em memória próprio,
// com o mesmo índice único parcial usado em produção.
func setupServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		Env:        "test",
		JWTSecret:  "test-secret",
		ServerPort: "0",
	}

	r := gin.New()
	routes.SetupRoutes(r, gdb, cfg, cache.New("", time.Minute))

	return r, gdb
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func authToken(t *testing.T, r http.Handler) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Fabiane",
		"email":    "fabiane@clinic.test",
		"password": "segredo123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: status %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return resp.Token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"error_code"`
	}
	decode(t, w, &resp)
	return resp.Code
}

// Fixtures criadas direto no banco para não depender dos endpoints em
// todos os testes.

func newClient(t *testing.T, gdb *gorm.DB, name string) models.Client {
	t.Helper()
	c := models.Client{FullName: name, Phone: "11999990000"}
	if err := gdb.Create(&c).Error; err != nil {
		t.Fatalf("failed to create client fixture: %v", err)
	}
	return c
}

func newService(t *testing.T, gdb *gorm.DB, name string, price float64) models.Service {
	t.Helper()
	s := models.Service{
		Name:        name,
		Category:    "Massagem",
		Price:       price,
		DurationMin: 60,
		Status:      "active",
	}
	if err := gdb.Create(&s).Error; err != nil {
		t.Fatalf("failed to create service fixture: %v", err)
	}
	return s
}

func newProduct(t *testing.T, gdb *gorm.DB, name string, qty, minAlert int) models.Product {
	t.Helper()
	p := models.Product{
		Name:          name,
		Category:      "Cosméticos",
		UnitPrice:     50,
		CostPrice:     25,
		StockQuantity: qty,
		MinStockAlert: minAlert,
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("failed to create product fixture: %v", err)
	}
	return p
}
