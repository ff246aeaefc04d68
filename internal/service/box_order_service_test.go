package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type boxOrderFixture struct {
	db        *gorm.DB
	svc       *BoxOrderService
	settings  *SettingService
	holding   *DBHoldingStore
	cart      *CartService
	kuihID    uint
	cakeID    uint
	pandanID  uint
	customer  *models.Customer
	agent     boxorder.AgentRef
	agentRole string
}

func setupBoxOrderFixture(t *testing.T, defaults config.BoxConfig) *boxOrderFixture {
	t.Helper()
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
	cake := &models.Product{Slug: "kek-batik", Name: "Kek Batik", IsVariable: true, IsActive: true, StockStatus: models.StockStatusInStock}
	if err := productRepo.Create(cake); err != nil {
		t.Fatalf("create variable product failed: %v", err)
	}
	pandan := &models.ProductVariant{
		ProductID:   cake.ID,
		Name:        "Kek Batik - Pandan",
		PriceAmount: models.NewMoney(decimal.RequireFromString("12.50")),
		Attributes:  models.JSON{"pa_flavour": "pandan"},
		IsActive:    true,
		StockStatus: models.StockStatusInStock,
	}
	if err := productRepo.CreateVariant(pandan); err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	if err := productRepo.UpsertTerm(&models.AttributeTerm{Attribute: "pa_flavour", Slug: "pandan", Name: "Pandan"}); err != nil {
		t.Fatalf("create term failed: %v", err)
	}

	customerRepo := repository.NewCustomerRepository(db)
	customer := &models.Customer{
		Email:     "aisyah@example.com",
		FirstName: "Aisyah",
		LastName:  "Rahman",
		Billing:   models.BillingAddress{FirstName: "Aisyah", LastName: "Rahman", Email: "aisyah@example.com", City: "Kuala Terengganu"},
	}
	if err := customerRepo.Create(customer); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	settings := NewSettingService(repository.NewSettingRepository(db), defaults)
	holding := NewDBHoldingStore(repository.NewPendingBoxSetRepository(db), time.Hour)
	cartRepo := repository.NewCartRepository(db)
	svc := NewBoxOrderService(
		repository.NewOrderRepository(db),
		cartRepo,
		customerRepo,
		NewCatalogService(productRepo, 0),
		settings,
		holding,
		nil,
		"MYR",
	)
	return &boxOrderFixture{
		db:        db,
		svc:       svc,
		settings:  settings,
		holding:   holding,
		cart:      NewCartService(cartRepo, "MYR"),
		kuihID:    kuih.ID,
		cakeID:    cake.ID,
		pandanID:  pandan.ID,
		customer:  customer,
		agent:     boxorder.AgentRef{ID: 7, Name: "Siti"},
		agentRole: "sales_agent",
	}
}

func defaultTestBoxConfig() config.BoxConfig {
	return config.BoxConfig{
		MaxBoxes:            3,
		MaxItemsPerBox:      5,
		ClearCartOnSubmit:   true,
		AdminEditingEnabled: true,
		AllowedRoles:        []string{"sales_agent", "shop_manager"},
	}
}

func (f *boxOrderFixture) twoBoxes() []boxorder.RawBox {
	return []boxorder.RawBox{
		{Label: "Aminah", Items: []boxorder.RawItem{{ProductID: f.kuihID, Quantity: 2}}},
		{Label: "Farid", Items: []boxorder.RawItem{
			{ProductID: f.kuihID, Quantity: 1},
			{ProductID: f.cakeID, VariantID: f.pandanID, Quantity: 2},
		}},
	}
}

func TestSubmitToCartAndCompleteCheckout(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()

	submission, err := f.svc.SubmitToCart(ctx, SubmitToCartInput{
		SessionKey: "sess-1",
		Agent:      f.agent,
		AgentRole:  f.agentRole,
		Boxes:      f.twoBoxes(),
	})
	if err != nil {
		t.Fatalf("submit to cart failed: %v", err)
	}
	if submission.TotalQuantity != 5 {
		t.Fatalf("expected total quantity 5, got %d", submission.TotalQuantity)
	}
	if len(submission.Lines) != 2 {
		t.Fatalf("expected 2 aggregated lines, got %d", len(submission.Lines))
	}
	if !submission.Total.Decimal.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("expected total 55, got %s", submission.Total.String())
	}

	view, err := f.cart.View("sess-1")
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(view.Lines) != 2 || view.Total.String() != "55.00" {
		t.Fatalf("unexpected cart: %+v", view)
	}

	order, err := f.svc.CompleteCheckout(ctx, CheckoutInput{
		SessionKey: "sess-1",
		Agent:      f.agent,
		Billing:    &boxorder.BillingAddress{FirstName: "Nur", Email: "NUR@example.com"},
	})
	if err != nil {
		t.Fatalf("complete checkout failed: %v", err)
	}
	if !order.IsBoxOrder || order.AgentID != f.agent.ID {
		t.Fatalf("unexpected order flags: %+v", order)
	}
	if order.TotalAmount.String() != "55.00" {
		t.Fatalf("expected order total 55.00, got %s", order.TotalAmount.String())
	}
	if order.Billing.Email != "nur@example.com" {
		t.Fatalf("expected sanitized guest email, got %s", order.Billing.Email)
	}
	if len(order.BoxSet.Boxes) != 2 || order.BoxSet.Boxes[1].Items[1].VariantDescription != "Pandan" {
		t.Fatalf("unexpected stored box set: %+v", order.BoxSet.BoxSet)
	}

	held, err := f.holding.Get(ctx, boxorder.HoldingKey{SessionKey: "sess-1", AgentID: f.agent.ID})
	if err != nil || held != nil {
		t.Fatalf("expected holding cleared, got %+v err=%v", held, err)
	}
	view, err = f.cart.View("sess-1")
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected cart cleared, got %d lines", len(view.Lines))
	}

	_, err = f.svc.CompleteCheckout(ctx, CheckoutInput{SessionKey: "sess-1", Agent: f.agent})
	if !errors.Is(err, ErrNoPendingBoxes) {
		t.Fatalf("expected ErrNoPendingBoxes on second checkout, got %v", err)
	}
}

func TestSubmitToCartAccessRules(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()

	_, err := f.svc.SubmitToCart(ctx, SubmitToCartInput{SessionKey: "s", Agent: f.agent, AgentRole: "readonly_auditor", Boxes: f.twoBoxes()})
	if !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("expected ErrRoleNotAllowed, got %v", err)
	}
	_, err = f.svc.SubmitToCart(ctx, SubmitToCartInput{SessionKey: "s", IsGuest: true, Boxes: f.twoBoxes()})
	if !errors.Is(err, ErrGuestModeDisabled) {
		t.Fatalf("expected ErrGuestModeDisabled, got %v", err)
	}
	_, err = f.svc.SubmitToCart(ctx, SubmitToCartInput{SessionKey: "s", Agent: f.agent, AgentRole: "readonly_auditor", IsSuper: true, Boxes: f.twoBoxes()})
	if err != nil {
		t.Fatalf("expected super admin to pass, got %v", err)
	}
	_, err = f.svc.SubmitToCart(ctx, SubmitToCartInput{Agent: f.agent, AgentRole: f.agentRole, Boxes: f.twoBoxes()})
	if !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestSubmitToCartMaxItemsBoundary(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()

	lines := func(n int) []boxorder.RawBox {
		items := make([]boxorder.RawItem, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, boxorder.RawItem{ProductID: f.kuihID, Quantity: 1})
		}
		return []boxorder.RawBox{{Label: "Edge", Items: items}}
	}
	if _, err := f.svc.SubmitToCart(ctx, SubmitToCartInput{SessionKey: "s", Agent: f.agent, AgentRole: f.agentRole, Boxes: lines(5)}); err != nil {
		t.Fatalf("expected exactly max items accepted, got %v", err)
	}

	_, err := f.svc.SubmitToCart(ctx, SubmitToCartInput{SessionKey: "s", Agent: f.agent, AgentRole: f.agentRole, Boxes: lines(6)})
	if !errors.Is(err, boxorder.ErrTooManyItems) {
		t.Fatalf("expected ErrTooManyItems, got %v", err)
	}
	if !IsValidationError(err) {
		t.Fatalf("expected validation error type, got %T", err)
	}
}

func TestCompleteCheckoutRequiresBilling(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()

	if _, err := f.svc.SubmitToCart(ctx, SubmitToCartInput{SessionKey: "s", Agent: f.agent, AgentRole: f.agentRole, Boxes: f.twoBoxes()}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	_, err := f.svc.CompleteCheckout(ctx, CheckoutInput{SessionKey: "s", Agent: f.agent, Billing: &boxorder.BillingAddress{FirstName: "Nur"}})
	if !errors.Is(err, ErrBillingRequired) {
		t.Fatalf("expected ErrBillingRequired, got %v", err)
	}

	order, err := f.svc.CompleteCheckout(ctx, CheckoutInput{SessionKey: "s", Agent: f.agent, CustomerID: f.customer.ID})
	if err != nil {
		t.Fatalf("checkout with customer failed: %v", err)
	}
	if order.CustomerID != f.customer.ID || order.Billing.City != "Kuala Terengganu" {
		t.Fatalf("expected customer billing copied, got %+v", order.Billing)
	}
}

func TestValidateAndCreateFromAdmin(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()
	payment := "cod"
	date := "2026-03-14"

	order, draft, err := f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{
		Agent:       f.agent,
		Boxes:       f.twoBoxes(),
		CustomerID:  f.customer.ID,
		Status:      "wc-processing",
		Fulfillment: FulfillmentMetaInput{PaymentStatus: &payment, PickupDate: &date},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if order.Status != "processing" || !order.CreatedFromAdmin {
		t.Fatalf("unexpected order: status=%s from_admin=%v", order.Status, order.CreatedFromAdmin)
	}
	if order.PaymentStatus != "cod" || order.PickupDate != date {
		t.Fatalf("expected fulfillment meta stored, got %+v", order)
	}
	if len(draft.Lines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(draft.Lines))
	}

	stored, err := f.svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(stored.Items) != 2 || len(stored.Notes) != 1 {
		t.Fatalf("expected 2 items and 1 note, got %d/%d", len(stored.Items), len(stored.Notes))
	}
	if !strings.Contains(stored.Notes[0].Content, "created from admin by Siti") {
		t.Fatalf("unexpected creation note: %s", stored.Notes[0].Content)
	}

	_, _, err = f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{Agent: f.agent, Boxes: f.twoBoxes(), Status: "shipped"})
	if !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
	}
	_, _, err = f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{Agent: f.agent, Boxes: f.twoBoxes(), CustomerID: 9999})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestSaveEditWritesHistoryAndNote(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()
	order, _, err := f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{Agent: f.agent, Boxes: f.twoBoxes(), CustomerID: f.customer.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	actor := boxorder.Actor{UserID: 1, UserName: "manager"}
	edited := []boxorder.RawBox{
		{Label: "Farid", Items: []boxorder.RawItem{
			{ProductID: f.kuihID, Quantity: 3},
			{ProductID: f.cakeID, VariantID: f.pandanID, Quantity: 2},
		}},
	}
	result, err := f.svc.SaveEdit(ctx, SaveEditInput{OrderID: order.ID, Boxes: edited, Actor: actor})
	if err != nil {
		t.Fatalf("save edit failed: %v", err)
	}
	if len(result.Changes) != 2 {
		t.Fatalf("expected 2 changes, got %+v", result.Changes)
	}
	if result.Changes[0].Kind != boxorder.ChangeBoxRemoved || result.Changes[1].Kind != boxorder.ChangeQtyChanged {
		t.Fatalf("unexpected change kinds: %+v", result.Changes)
	}
	if result.Order.TotalAmount.String() != "55.00" {
		t.Fatalf("expected recomputed total 55.00, got %s", result.Order.TotalAmount.String())
	}
	if len(result.Order.Items) != 2 || result.Order.Items[0].Quantity != 3 {
		t.Fatalf("expected rebuilt items, got %+v", result.Order.Items)
	}
	if !strings.HasPrefix(result.Order.Notes[0].Content, "Box order edited by manager") {
		t.Fatalf("expected edit note first, got %s", result.Order.Notes[0].Content)
	}

	history, err := f.svc.GetEditHistory(ctx, order.ID)
	if err != nil {
		t.Fatalf("get history failed: %v", err)
	}
	if len(history) != 1 || history[0].UserName != "manager" || len(history[0].Changes) != 2 {
		t.Fatalf("unexpected history: %+v", history)
	}

	again, err := f.svc.SaveEdit(ctx, SaveEditInput{OrderID: order.ID, Boxes: edited, Actor: actor})
	if err != nil {
		t.Fatalf("repeat save failed: %v", err)
	}
	if len(again.Changes) != 0 {
		t.Fatalf("expected no changes on identical save, got %+v", again.Changes)
	}
	history, err = f.svc.GetEditHistory(ctx, order.ID)
	if err != nil {
		t.Fatalf("get history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected no new history entry, got %d", len(history))
	}
	if len(again.Order.Notes) != len(result.Order.Notes) {
		t.Fatalf("expected no new note, got %d vs %d", len(again.Order.Notes), len(result.Order.Notes))
	}
	if diff := boxorder.Diff(&again.Order.BoxSet.BoxSet, again.Order.BoxSet.BoxSet); len(diff) != 0 {
		t.Fatalf("expected stored set self diff empty, got %+v", diff)
	}
}

func TestSaveEditGuards(t *testing.T) {
	cfg := defaultTestBoxConfig()
	cfg.AdminEditingEnabled = false
	f := setupBoxOrderFixture(t, cfg)
	ctx := context.Background()

	_, err := f.svc.SaveEdit(ctx, SaveEditInput{OrderID: 1, Boxes: f.twoBoxes()})
	if !errors.Is(err, ErrBoxEditingDisabled) {
		t.Fatalf("expected ErrBoxEditingDisabled, got %v", err)
	}

	if _, err := f.settings.UpdateBoxOrderSetting(map[string]interface{}{"admin_editing_enabled": true}); err != nil {
		t.Fatalf("enable editing failed: %v", err)
	}
	_, err = f.svc.SaveEdit(ctx, SaveEditInput{OrderID: 404, Boxes: f.twoBoxes()})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	regular := &models.Order{OrderNo: "WC-1", Status: "pending", Currency: "MYR"}
	if err := f.db.Create(regular).Error; err != nil {
		t.Fatalf("create regular order failed: %v", err)
	}
	_, err = f.svc.SaveEdit(ctx, SaveEditInput{OrderID: regular.ID, Boxes: f.twoBoxes()})
	if !errors.Is(err, ErrNotBoxOrder) {
		t.Fatalf("expected ErrNotBoxOrder, got %v", err)
	}
	if _, err := f.svc.GetPackingList(ctx, regular.ID); !errors.Is(err, ErrNotBoxOrder) {
		t.Fatalf("expected packing list to reject regular order, got %v", err)
	}
}

func TestUpdateFulfillmentMetaAddsNotes(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()
	order, _, err := f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{Agent: f.agent, Boxes: f.twoBoxes(), CustomerID: f.customer.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	payment := "done"
	collection := "pickup_hq"
	clock := "14:30"
	updated, err := f.svc.UpdateFulfillmentMeta(ctx, order.ID, FulfillmentMetaInput{
		PaymentStatus:    &payment,
		CollectionMethod: &collection,
		PickupTime:       &clock,
	}, boxorder.Actor{UserID: 2, UserName: "cashier"})
	if err != nil {
		t.Fatalf("update fulfillment failed: %v", err)
	}
	if updated.PaymentStatus != "done" || updated.CollectionMethod != "pickup_hq" || updated.PickupTime != "14:30" {
		t.Fatalf("unexpected fulfillment state: %+v", updated)
	}
	want := []string{
		"Payment Status changed from Not set to Done Payment by cashier",
		"Collection Method changed from Not set to Pickup - HQ by cashier",
		"Pickup/COD Time changed from Not set to 2:30 PM by cashier",
	}
	contents := make([]string, 0, len(updated.Notes))
	for _, note := range updated.Notes {
		contents = append(contents, note.Content)
	}
	for _, expected := range want {
		found := false
		for _, content := range contents {
			if content == expected {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing note %q in %v", expected, contents)
		}
	}

	bad := "unknown"
	if _, err := f.svc.UpdateFulfillmentMeta(ctx, order.ID, FulfillmentMetaInput{PaymentStatus: &bad}, boxorder.Actor{}); !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Fatalf("expected ErrInvalidPaymentStatus, got %v", err)
	}
	badDate := "14/03/2026"
	if _, err := f.svc.UpdateFulfillmentMeta(ctx, order.ID, FulfillmentMetaInput{PickupDate: &badDate}, boxorder.Actor{}); !errors.Is(err, ErrInvalidPickupDate) {
		t.Fatalf("expected ErrInvalidPickupDate, got %v", err)
	}
}

func TestPackingAndCollectingLists(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()
	order, _, err := f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{Agent: f.agent, Boxes: f.twoBoxes(), CustomerID: f.customer.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	packing, err := f.svc.GetPackingList(ctx, order.ID)
	if err != nil {
		t.Fatalf("packing list failed: %v", err)
	}
	if len(packing.Boxes) != 2 || packing.TotalQuantity != 5 || packing.GrandTotal.String() != "55.00" {
		t.Fatalf("unexpected packing list: %+v", packing)
	}
	if packing.Template != "default" {
		t.Fatalf("expected default template, got %s", packing.Template)
	}

	collecting, err := f.svc.GetCollectingList(ctx, order.ID)
	if err != nil {
		t.Fatalf("collecting list failed: %v", err)
	}
	if len(collecting.Lines) != 2 || collecting.TotalQuantity != 5 {
		t.Fatalf("unexpected collecting list: %+v", collecting)
	}
	if collecting.Lines[0].Quantity+collecting.Lines[1].Quantity != packing.TotalQuantity {
		t.Fatalf("collecting quantities do not match packing list")
	}
}

func TestListBoxOrdersFilters(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()
	cod := "cod"
	if _, _, err := f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{Agent: f.agent, Boxes: f.twoBoxes(), CustomerID: f.customer.ID, Fulfillment: FulfillmentMetaInput{PaymentStatus: &cod}}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other := boxorder.AgentRef{ID: 8, Name: "Farah"}
	if _, _, err := f.svc.ValidateAndCreate(ctx, CreateBoxOrderInput{Agent: other, Boxes: f.twoBoxes(), CustomerID: f.customer.ID}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.db.Create(&models.Order{OrderNo: "WC-9", Status: "pending", Currency: "MYR"}).Error; err != nil {
		t.Fatalf("create regular order failed: %v", err)
	}

	rows, total, err := f.svc.ListBoxOrders(ctx, BoxOrderListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 box orders, got %d/%d", total, len(rows))
	}

	rows, total, err = f.svc.ListBoxOrders(ctx, BoxOrderListFilter{PaymentStatus: "cod"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || rows[0].PaymentStatus == nil || rows[0].PaymentStatus.Label != "Cash on Delivery (COD)" {
		t.Fatalf("unexpected payment filter result: %+v", rows)
	}
	if len(rows[0].BoxLabels) != 2 || rows[0].TotalQuantity != 5 {
		t.Fatalf("unexpected summary: %+v", rows[0])
	}

	_, total, err = f.svc.ListBoxOrders(ctx, BoxOrderListFilter{AgentID: other.ID})
	if err != nil || total != 1 {
		t.Fatalf("expected 1 order for agent, got %d err=%v", total, err)
	}
	_, total, err = f.svc.ListBoxOrders(ctx, BoxOrderListFilter{IncludeRegular: true})
	if err != nil || total != 3 {
		t.Fatalf("expected 3 orders including regular, got %d err=%v", total, err)
	}
}

func TestDBHoldingStoreExpiry(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()
	key := boxorder.HoldingKey{SessionKey: "sess", AgentID: 3}
	set := boxorder.BoxSet{Boxes: []boxorder.Box{{Label: "A", Items: []boxorder.BoxItem{{ProductID: f.kuihID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}}}}}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.holding.now = func() time.Time { return base }
	if err := f.holding.Put(ctx, key, set); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, err := f.holding.Get(ctx, key)
	if err != nil || got == nil || len(got.Boxes) != 1 {
		t.Fatalf("expected held set, got %+v err=%v", got, err)
	}

	f.holding.now = func() time.Time { return base.Add(2 * time.Hour) }
	got, err = f.holding.Get(ctx, key)
	if err != nil || got != nil {
		t.Fatalf("expected expired entry hidden, got %+v err=%v", got, err)
	}
	removed, err := f.holding.SweepExpired(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("expected 1 swept row, got %d err=%v", removed, err)
	}

	if err := f.holding.Put(ctx, boxorder.HoldingKey{AgentID: 1}, set); !errors.Is(err, boxorder.ErrInvalidHoldingKey) {
		t.Fatalf("expected ErrInvalidHoldingKey, got %v", err)
	}
}

func TestCatalogServiceDescribesVariant(t *testing.T) {
	f := setupBoxOrderFixture(t, defaultTestBoxConfig())
	ctx := context.Background()
	catalog := NewCatalogService(repository.NewProductRepository(f.db), time.Minute)

	product, err := catalog.GetProduct(ctx, f.cakeID)
	if err != nil || product == nil || !product.IsVariable {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}
	variant, err := catalog.GetVariant(ctx, f.pandanID)
	if err != nil || variant == nil || variant.ParentID != f.cakeID {
		t.Fatalf("unexpected variant: %+v err=%v", variant, err)
	}
	if !variant.Price.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("unexpected variant price: %s", variant.Price)
	}
	name, ok, err := catalog.ResolveAttributeTerm(ctx, "pa_flavour", "pandan")
	if err != nil || !ok || name != "Pandan" {
		t.Fatalf("unexpected term: %s %v %v", name, ok, err)
	}
	missing, err := catalog.GetProduct(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing product, got %+v err=%v", missing, err)
	}
}
