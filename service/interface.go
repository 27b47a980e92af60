package service

type ServiceInterface interface {
	RegisterBusiness(name string) (BusinessDTO, error)
	IntegrateMarketplace(businessID string) (string, error)
	CreateProduct(businessID, name, description string, price float64) (ProductDTO, error)
	GetProduct(productID string) (ProductDTO, error)
	UpdateProduct(productID, name, description string, price float64) (ProductDTO, error)
	PlaceOrder(businessID, productID string, quantity int, customerName string) (OrderDTO, error)
	ProcessPayment(businessID, orderID string) (PaymentDTO, error)
	TrackOrder(orderID string) (TrackingDTO, error)
}
