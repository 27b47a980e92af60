package service

import (
	"errors"
	"fmt"

	"marketplace-orders/apperr"
	models "marketplace-orders/model"
	"marketplace-orders/store"
)

// PlaceOrder creates an order for a quantity of one product. The amount is
// computed from the product's price at this moment and frozen; later price
// updates never touch it. The order starts pending payment.
func (s *Service) PlaceOrder(businessID, productID string, quantity int, customerName string) (OrderDTO, error) {
	if businessID == "" || productID == "" || customerName == "" {
		return OrderDTO{}, fmt.Errorf("%w: business_id, product_id and customer_name are required", apperr.ErrValidation)
	}
	if quantity <= 0 {
		return OrderDTO{}, fmt.Errorf("%w: quantity must be > 0", apperr.ErrValidation)
	}

	if _, err := s.store.GetBusiness(businessID); err != nil {
		return OrderDTO{}, storeErr(err, "business", businessID)
	}
	product, err := s.store.GetProduct(productID)
	if err != nil {
		return OrderDTO{}, storeErr(err, "product", productID)
	}

	o := store.OrderRow{
		OrderID:      s.newID(),
		BusinessID:   businessID,
		ProductID:    productID,
		Quantity:     quantity,
		CustomerName: customerName,
		Amount:       float64(quantity) * product.Price,
		Status:       models.OrderStatusPendingPayment,
	}
	if err := s.store.CreateOrder(o); err != nil {
		return OrderDTO{}, fmt.Errorf("%w: create order: %v", apperr.ErrPersistence, err)
	}
	return OrderDTO{
		OrderID:      o.OrderID,
		BusinessID:   o.BusinessID,
		ProductID:    o.ProductID,
		Quantity:     o.Quantity,
		CustomerName: o.CustomerName,
		Amount:       o.Amount,
		Status:       o.Status,
	}, nil
}

// TrackOrder returns the stored status and frozen amount of an order.
func (s *Service) TrackOrder(orderID string) (TrackingDTO, error) {
	if orderID == "" {
		return TrackingDTO{}, fmt.Errorf("%w: order_id is required", apperr.ErrValidation)
	}
	o, err := s.store.GetOrder(orderID)
	if err != nil {
		return TrackingDTO{}, storeErr(err, "order", orderID)
	}
	return TrackingDTO{OrderID: o.OrderID, Status: o.Status, Amount: o.Amount}, nil
}

// transitionToPaid applies the single allowed status transition, checking
// the transition table before touching the store. It is idempotent: a
// conflict caused by the order already being paid is treated as success.
// Any other failure is the recognized partial-failure window (payment
// recorded, order still pending) and is reported distinctly.
func (s *Service) transitionToPaid(orderID string, from models.OrderStatus) error {
	if !from.CanTransitionTo(models.OrderStatusPaid) {
		return fmt.Errorf("%w: order %s: illegal transition %s -> %s",
			apperr.ErrTransitionIncomplete, orderID, from, models.OrderStatusPaid)
	}
	err := s.store.MarkOrderPaid(orderID, from, models.OrderStatusPaid)
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrStatusConflict) {
		if o, gerr := s.store.GetOrder(orderID); gerr == nil && o.Status == models.OrderStatusPaid {
			return nil
		}
	}
	return fmt.Errorf("%w: order %s: %v", apperr.ErrTransitionIncomplete, orderID, err)
}
