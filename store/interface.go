package store

import models "marketplace-orders/model"

// Store is the durable entity store. Every entity is addressed by its own
// unique string ID. Lookups signal absence with sql.ErrNoRows regardless of
// the backing implementation.
type Store interface {
	CreateBusiness(b BusinessRow) error
	GetBusiness(businessID string) (BusinessRow, error)
	SetShopID(businessID, shopID string) error

	CreateProduct(p ProductRow) error
	GetProduct(productID string) (ProductRow, error)
	UpdateProduct(productID, name, description string, price float64) (ProductRow, error)

	CreateOrder(o OrderRow) error
	GetOrder(orderID string) (OrderRow, error)
	MarkOrderPaid(orderID string, from, to models.OrderStatus) error

	CreatePayment(p PaymentRow) error
	ListPayments(orderID string) ([]PaymentRow, error)

	Close() error
}
