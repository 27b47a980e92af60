package store

import (
	"database/sql"
	"sync"

	models "marketplace-orders/model"
)

// MemoryStore is an in-process Store for tests. All maps are guarded by a
// single mutex so it is safe under concurrent callers. Absence is reported
// with sql.ErrNoRows, same as PostgresStore.
type MemoryStore struct {
	mu         sync.Mutex
	businesses map[string]BusinessRow
	products   map[string]ProductRow
	orders     map[string]OrderRow
	payments   map[string][]PaymentRow // keyed by order ID, append-only
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		businesses: map[string]BusinessRow{},
		products:   map[string]ProductRow{},
		orders:     map[string]OrderRow{},
		payments:   map[string][]PaymentRow{},
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) CreateBusiness(b BusinessRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.businesses[b.BusinessID] = b
	return nil
}

func (m *MemoryStore) GetBusiness(businessID string) (BusinessRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.businesses[businessID]
	if !ok {
		return BusinessRow{}, sql.ErrNoRows
	}
	return b, nil
}

func (m *MemoryStore) SetShopID(businessID, shopID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.businesses[businessID]
	if !ok {
		return sql.ErrNoRows
	}
	if b.ShopID.Valid {
		return ErrShopAssigned
	}
	b.ShopID = sql.NullString{String: shopID, Valid: true}
	m.businesses[businessID] = b
	return nil
}

func (m *MemoryStore) CreateProduct(p ProductRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ProductID] = p
	return nil
}

func (m *MemoryStore) GetProduct(productID string) (ProductRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return ProductRow{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *MemoryStore) UpdateProduct(productID, name, description string, price float64) (ProductRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return ProductRow{}, sql.ErrNoRows
	}
	p.Name = name
	p.Description = description
	p.Price = price
	m.products[productID] = p
	return p, nil
}

func (m *MemoryStore) CreateOrder(o OrderRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.OrderID] = o
	return nil
}

func (m *MemoryStore) GetOrder(orderID string) (OrderRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return OrderRow{}, sql.ErrNoRows
	}
	return o, nil
}

func (m *MemoryStore) MarkOrderPaid(orderID string, from, to models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != from {
		return ErrStatusConflict
	}
	o.Status = to
	m.orders[orderID] = o
	return nil
}

func (m *MemoryStore) CreatePayment(p PaymentRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.OrderID] = append(m.payments[p.OrderID], p)
	return nil
}

func (m *MemoryStore) ListPayments(orderID string) ([]PaymentRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PaymentRow, len(m.payments[orderID]))
	copy(out, m.payments[orderID])
	return out, nil
}
