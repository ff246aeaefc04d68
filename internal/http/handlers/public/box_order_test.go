package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/boxorder-next/internal/config"
	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/provider"
	"github.com/boxorder-next/internal/repository"
	"github.com/boxorder-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type publicFixture struct {
	router     *gin.Engine
	db         *gorm.DB
	kuihID     uint
	customerID uint
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupPublicFixture(t *testing.T, boxCfg config.BoxConfig) *publicFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	kuih := &models.Product{Slug: "kuih-lapis", Name: "Kuih Lapis", PriceAmount: models.NewMoney(decimal.NewFromInt(10)), IsActive: true, StockStatus: models.StockStatusInStock}
	if err := productRepo.Create(kuih); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	customerRepo := repository.NewCustomerRepository(db)
	customer := &models.Customer{Email: "aisyah@example.com", FirstName: "Aisyah", Billing: models.BillingAddress{FirstName: "Aisyah", Email: "aisyah@example.com"}}
	if err := customerRepo.Create(customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	cfg := &config.Config{App: config.AppConfig{Name: "Box Shop", Currency: "MYR"}, Box: boxCfg}
	cartRepo := repository.NewCartRepository(db)
	settings := service.NewSettingService(repository.NewSettingRepository(db), boxCfg)
	catalog := service.NewCatalogService(productRepo, 0)
	holding := service.NewDBHoldingStore(repository.NewPendingBoxSetRepository(db), time.Hour)
	container := &provider.Container{
		Config:          cfg,
		SettingService:  settings,
		CatalogService:  catalog,
		CartService:     service.NewCartService(cartRepo, "MYR"),
		CaptchaService:  service.NewCaptchaService(config.CaptchaConfig{}),
		DBHolding:       holding,
		Holding:         holding,
		BoxOrderService: service.NewBoxOrderService(repository.NewOrderRepository(db), cartRepo, customerRepo, catalog, settings, holding, nil, "MYR"),
	}

	h := New(container)
	r := gin.New()
	// 测试中用请求头模拟已登录代理人
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-Agent") != "" {
			c.Set(handlershared.ContextKeyAdminID, uint(7))
			c.Set(handlershared.ContextKeyAdminName, "Siti")
			c.Set(handlershared.ContextKeyAdminRole, c.GetHeader("X-Test-Agent"))
		}
		c.Next()
	})
	r.GET("/public/config", h.GetConfig)
	r.GET("/public/products", h.GetProducts)
	r.GET("/public/cart", h.GetCart)
	r.POST("/public/box-orders/submit", h.SubmitBoxOrder)
	r.POST("/public/box-orders/checkout", h.CheckoutBoxOrder)

	return &publicFixture{router: r, db: db, kuihID: kuih.ID, customerID: customer.ID}
}

func testBoxConfig() config.BoxConfig {
	return config.BoxConfig{
		MaxBoxes:          2,
		MaxItemsPerBox:    5,
		ClearCartOnSubmit: true,
		AllowedRoles:      []string{"sales_agent"},
	}
}

func (f *publicFixture) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return w, resp
}

func (f *publicFixture) boxes(labels ...string) gin.H {
	boxes := make([]gin.H, 0, len(labels))
	for _, label := range labels {
		boxes = append(boxes, gin.H{"label": label, "items": []gin.H{{"product_id": f.kuihID, "quantity": 2}}})
	}
	return gin.H{"boxes": boxes}
}

func TestSubmitAndCheckoutAsAgent(t *testing.T) {
	f := setupPublicFixture(t, testBoxConfig())
	agent := map[string]string{"X-Test-Agent": "sales_agent"}

	w, resp := f.do(t, http.MethodPost, "/public/box-orders/submit", f.boxes("Aminah", "Farid"), agent)
	if resp.StatusCode != 0 {
		t.Fatalf("submit failed: %s", w.Body.String())
	}
	session := w.Header().Get(handlershared.SessionHeader)
	if session == "" {
		t.Fatalf("expected session header on submit")
	}
	var submitted struct {
		SessionKey    string `json:"session_key"`
		TotalQuantity int    `json:"total_quantity"`
		Total         string `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &submitted); err != nil {
		t.Fatalf("decode submit data failed: %v", err)
	}
	if submitted.SessionKey != session || submitted.TotalQuantity != 4 || submitted.Total != "40.00" {
		t.Fatalf("unexpected submission: %+v", submitted)
	}

	withSession := map[string]string{"X-Test-Agent": "sales_agent", handlershared.SessionHeader: session}
	_, resp = f.do(t, http.MethodGet, "/public/cart", nil, withSession)
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"quantity":4`) {
		t.Fatalf("cart should hold aggregated line: %s", string(resp.Data))
	}

	_, resp = f.do(t, http.MethodPost, "/public/box-orders/checkout", gin.H{"customer_id": f.customerID}, withSession)
	if resp.StatusCode != 0 {
		t.Fatalf("checkout failed: %+v", resp)
	}
	var order models.Order
	if err := f.db.Where("is_box_order = ?", true).First(&order).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order.AgentID != 7 || len(order.BoxSet.Boxes) != 2 {
		t.Fatalf("unexpected order: agent=%d boxes=%d", order.AgentID, len(order.BoxSet.Boxes))
	}

	_, resp = f.do(t, http.MethodPost, "/public/box-orders/checkout", gin.H{"customer_id": f.customerID}, withSession)
	if resp.StatusCode != 400 {
		t.Fatalf("second checkout should find no pending boxes, got %d", resp.StatusCode)
	}
}

func TestSubmitRejectsInvalidBoxes(t *testing.T) {
	f := setupPublicFixture(t, testBoxConfig())
	agent := map[string]string{"X-Test-Agent": "sales_agent"}

	_, resp := f.do(t, http.MethodPost, "/public/box-orders/submit", f.boxes("A", "B", "C"), agent)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for too many boxes, got %d", resp.StatusCode)
	}
	var detail struct {
		Code  string `json:"code"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(resp.Data, &detail); err != nil {
		t.Fatalf("decode validation data failed: %v", err)
	}
	if detail.Code != "too_many_boxes" || detail.Limit != 2 {
		t.Fatalf("unexpected validation detail: %+v", detail)
	}
	if !strings.Contains(resp.Msg, "Maximum 2 boxes") {
		t.Fatalf("unexpected message: %s", resp.Msg)
	}
}

func TestSubmitAccessRules(t *testing.T) {
	t.Run("guest mode disabled", func(t *testing.T) {
		f := setupPublicFixture(t, testBoxConfig())
		_, resp := f.do(t, http.MethodPost, "/public/box-orders/submit", f.boxes("A"), nil)
		if resp.StatusCode != 401 {
			t.Fatalf("expected 401 for guest, got %d", resp.StatusCode)
		}
	})

	t.Run("guest requires captcha", func(t *testing.T) {
		cfg := testBoxConfig()
		cfg.GuestMode = true
		f := setupPublicFixture(t, cfg)
		_, resp := f.do(t, http.MethodPost, "/public/box-orders/submit", f.boxes("A"), nil)
		if resp.StatusCode != 400 || !strings.Contains(strings.ToLower(resp.Msg), "captcha") {
			t.Fatalf("expected captcha error, got %+v", resp)
		}
	})

	t.Run("role not allowed", func(t *testing.T) {
		f := setupPublicFixture(t, testBoxConfig())
		_, resp := f.do(t, http.MethodPost, "/public/box-orders/submit", f.boxes("A"), map[string]string{"X-Test-Agent": "readonly_auditor"})
		if resp.StatusCode != 403 {
			t.Fatalf("expected 403 for disallowed role, got %d", resp.StatusCode)
		}
	})
}

func TestCartRequiresSession(t *testing.T) {
	f := setupPublicFixture(t, testBoxConfig())
	_, resp := f.do(t, http.MethodGet, "/public/cart", nil, nil)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 without session, got %d", resp.StatusCode)
	}
}

func TestGetConfigAndProducts(t *testing.T) {
	f := setupPublicFixture(t, testBoxConfig())

	_, resp := f.do(t, http.MethodGet, "/public/config", nil, nil)
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"max_boxes":2`) || !strings.Contains(string(resp.Data), `"currency":"MYR"`) {
		t.Fatalf("unexpected config: %s", string(resp.Data))
	}

	_, resp = f.do(t, http.MethodGet, "/public/products?q=kuih", nil, nil)
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), "Kuih Lapis") {
		t.Fatalf("unexpected products: %s", string(resp.Data))
	}
}
