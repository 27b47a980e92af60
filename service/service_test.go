package service

import (
	"database/sql"
	"errors"
	"testing"

	"marketplace-orders/apperr"
	models "marketplace-orders/model"
	"marketplace-orders/store"
)

// ---- fakeStore implementing store.Store partially for tests ----
type fakeStore struct {
	CreateBusinessFn func(b store.BusinessRow) error
	GetBusinessFn    func(businessID string) (store.BusinessRow, error)
	SetShopIDFn      func(businessID, shopID string) error
	CreateProductFn  func(p store.ProductRow) error
	GetProductFn     func(productID string) (store.ProductRow, error)
	UpdateProductFn  func(productID, name, description string, price float64) (store.ProductRow, error)
	CreateOrderFn    func(o store.OrderRow) error
	GetOrderFn       func(orderID string) (store.OrderRow, error)
	MarkOrderPaidFn  func(orderID string, from, to models.OrderStatus) error
	CreatePaymentFn  func(p store.PaymentRow) error
	ListPaymentsFn   func(orderID string) ([]store.PaymentRow, error)
}

func (f *fakeStore) CreateBusiness(b store.BusinessRow) error { return f.CreateBusinessFn(b) }
func (f *fakeStore) GetBusiness(businessID string) (store.BusinessRow, error) {
	return f.GetBusinessFn(businessID)
}
func (f *fakeStore) SetShopID(businessID, shopID string) error {
	return f.SetShopIDFn(businessID, shopID)
}
func (f *fakeStore) CreateProduct(p store.ProductRow) error { return f.CreateProductFn(p) }
func (f *fakeStore) GetProduct(productID string) (store.ProductRow, error) {
	return f.GetProductFn(productID)
}
func (f *fakeStore) UpdateProduct(productID, name, description string, price float64) (store.ProductRow, error) {
	return f.UpdateProductFn(productID, name, description, price)
}
func (f *fakeStore) CreateOrder(o store.OrderRow) error { return f.CreateOrderFn(o) }
func (f *fakeStore) GetOrder(orderID string) (store.OrderRow, error) { return f.GetOrderFn(orderID) }
func (f *fakeStore) MarkOrderPaid(orderID string, from, to models.OrderStatus) error {
	return f.MarkOrderPaidFn(orderID, from, to)
}
func (f *fakeStore) CreatePayment(p store.PaymentRow) error { return f.CreatePaymentFn(p) }
func (f *fakeStore) ListPayments(orderID string) ([]store.PaymentRow, error) {
	return f.ListPaymentsFn(orderID)
}
func (f *fakeStore) Close() error { return nil }

// ---- Tests ----

func TestRegisterBusinessValidationAndForwarding(t *testing.T) {
	var created store.BusinessRow
	svc := NewService(&fakeStore{
		CreateBusinessFn: func(b store.BusinessRow) error {
			created = b
			return nil
		},
	}, nil, func() string { return "biz-1" })

	// empty name -> validation error
	if _, err := svc.RegisterBusiness(""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	b, err := svc.RegisterBusiness("Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BusinessID != "biz-1" || b.Name != "Acme" {
		t.Fatalf("unexpected business dto: %+v", b)
	}
	if created.BusinessID != "biz-1" {
		t.Fatalf("expected store.CreateBusiness to receive generated id, got %+v", created)
	}
}

func TestIntegrateMarketplaceAssignsOnce(t *testing.T) {
	assigned := ""
	fs := &fakeStore{
		GetBusinessFn: func(businessID string) (store.BusinessRow, error) {
			b := store.BusinessRow{BusinessID: businessID, Name: "Acme"}
			if assigned != "" {
				b.ShopID = sql.NullString{String: assigned, Valid: true}
			}
			return b, nil
		},
		SetShopIDFn: func(businessID, shopID string) error {
			assigned = shopID
			return nil
		},
	}
	svc := NewService(fs, nil, func() string { return "shop-1" })

	shopID, err := svc.IntegrateMarketplace("b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shopID != "shop-1" {
		t.Fatalf("expected shop-1, got %q", shopID)
	}

	// second call returns the existing id without re-assigning
	shopID, err = svc.IntegrateMarketplace("b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shopID != "shop-1" {
		t.Fatalf("expected existing shop-1, got %q", shopID)
	}

	// unknown business -> not found
	fs2 := &fakeStore{
		GetBusinessFn: func(string) (store.BusinessRow, error) { return store.BusinessRow{}, sql.ErrNoRows },
	}
	if _, err := NewService(fs2, nil, nil).IntegrateMarketplace("nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateProductValidationAndForwarding(t *testing.T) {
	fs := &fakeStore{
		GetBusinessFn: func(businessID string) (store.BusinessRow, error) {
			if businessID != "b1" {
				return store.BusinessRow{}, sql.ErrNoRows
			}
			return store.BusinessRow{BusinessID: "b1"}, nil
		},
		CreateProductFn: func(p store.ProductRow) error { return nil },
	}
	svc := NewService(fs, nil, func() string { return "prod-1" })

	// missing fields -> validation error
	if _, err := svc.CreateProduct("b1", "", "d", 1); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := svc.CreateProduct("b1", "n", "", 1); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty description, got %v", err)
	}
	if _, err := svc.CreateProduct("b1", "n", "d", -1); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative price, got %v", err)
	}

	// unknown business -> not found
	if _, err := svc.CreateProduct("bX", "n", "d", 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p, err := svc.CreateProduct("b1", "Widget", "A widget", 10.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ProductID != "prod-1" || p.Price != 10.0 {
		t.Fatalf("unexpected product dto: %+v", p)
	}
}

func TestPlaceOrderComputesAmount(t *testing.T) {
	var created store.OrderRow
	fs := &fakeStore{
		GetBusinessFn: func(string) (store.BusinessRow, error) {
			return store.BusinessRow{BusinessID: "B1"}, nil
		},
		GetProductFn: func(string) (store.ProductRow, error) {
			return store.ProductRow{ProductID: "P1", BusinessID: "B1", Price: 10.0}, nil
		},
		CreateOrderFn: func(o store.OrderRow) error {
			created = o
			return nil
		},
	}
	svc := NewService(fs, nil, func() string { return "order-1" })

	ord, err := svc.PlaceOrder("B1", "P1", 3, "Jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ord.Amount != 30.0 {
		t.Fatalf("expected amount 30.0, got %v", ord.Amount)
	}
	if ord.Status != models.OrderStatusPendingPayment {
		t.Fatalf("expected pending status, got %v", ord.Status)
	}
	if created.OrderID != "order-1" || created.Amount != 30.0 {
		t.Fatalf("unexpected persisted order: %+v", created)
	}
}

func TestPlaceOrderValidationAndNotFound(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil)

	cases := []struct {
		name                                string
		businessID, productID, customerName string
		quantity                            int
	}{
		{"missing business", "", "p", "Jane", 1},
		{"missing product", "b", "", "Jane", 1},
		{"missing customer", "b", "p", "", 1},
		{"zero quantity", "b", "p", "Jane", 0},
		{"negative quantity", "b", "p", "Jane", -2},
	}
	for _, tc := range cases {
		if _, err := svc.PlaceOrder(tc.businessID, tc.productID, tc.quantity, tc.customerName); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}

	// unknown business
	fs := &fakeStore{
		GetBusinessFn: func(string) (store.BusinessRow, error) { return store.BusinessRow{}, sql.ErrNoRows },
	}
	if _, err := NewService(fs, nil, nil).PlaceOrder("b", "p", 1, "Jane"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for business, got %v", err)
	}

	// known business, unknown product
	fs2 := &fakeStore{
		GetBusinessFn: func(string) (store.BusinessRow, error) { return store.BusinessRow{BusinessID: "b"}, nil },
		GetProductFn:  func(string) (store.ProductRow, error) { return store.ProductRow{}, sql.ErrNoRows },
	}
	if _, err := NewService(fs2, nil, nil).PlaceOrder("b", "p", 1, "Jane"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for product, got %v", err)
	}
}

// A price update after placement must not change the amount of an existing
// order, while new orders see the new price.
func TestPriceUpdateDoesNotAffectPlacedOrders(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, nil, nil)

	b, err := svc.RegisterBusiness("Acme")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	p, err := svc.CreateProduct(b.BusinessID, "Widget", "A widget", 10.0)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	first, err := svc.PlaceOrder(b.BusinessID, p.ProductID, 3, "Jane")
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if first.Amount != 30.0 {
		t.Fatalf("expected amount 30.0, got %v", first.Amount)
	}

	if _, err := svc.UpdateProduct(p.ProductID, "Widget", "A widget", 99.0); err != nil {
		t.Fatalf("update product: %v", err)
	}

	tracked, err := svc.TrackOrder(first.OrderID)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if tracked.Amount != 30.0 {
		t.Fatalf("placed order amount changed after price update: %v", tracked.Amount)
	}

	second, err := svc.PlaceOrder(b.BusinessID, p.ProductID, 2, "Jane")
	if err != nil {
		t.Fatalf("place second order: %v", err)
	}
	if second.Amount != 198.0 {
		t.Fatalf("expected new order to use updated price, got %v", second.Amount)
	}
}

func TestTrackOrder(t *testing.T) {
	fs := &fakeStore{
		GetOrderFn: func(orderID string) (store.OrderRow, error) {
			if orderID != "o1" {
				return store.OrderRow{}, sql.ErrNoRows
			}
			return store.OrderRow{OrderID: "o1", Amount: 30.0, Status: models.OrderStatusPaid}, nil
		},
	}
	svc := NewService(fs, nil, nil)

	if _, err := svc.TrackOrder(""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.TrackOrder("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := svc.TrackOrder("o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.OrderStatusPaid || got.Amount != 30.0 {
		t.Fatalf("unexpected tracking dto: %+v", got)
	}
}

// Extra: store failures surface as persistence errors, not not-found.
func TestStoreErrorClassification(t *testing.T) {
	boom := errors.New("connection reset")
	fs := &fakeStore{
		GetBusinessFn: func(string) (store.BusinessRow, error) { return store.BusinessRow{}, boom },
	}
	_, err := NewService(fs, nil, nil).PlaceOrder("b", "p", 1, "Jane")
	if !errors.Is(err, apperr.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("persistence failure must not read as not-found: %v", err)
	}
}
