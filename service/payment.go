package service

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"marketplace-orders/apperr"
	models "marketplace-orders/model"
	"marketplace-orders/store"
)

// PaymentDecider produces the outcome of one payment attempt. It stands in
// for an external gateway call; tests substitute deterministic deciders.
type PaymentDecider interface {
	Decide() models.PaymentOutcome
}

// DeciderFunc adapts a plain function to PaymentDecider.
type DeciderFunc func() models.PaymentOutcome

func (f DeciderFunc) Decide() models.PaymentOutcome { return f() }

// RandomDecider draws an unweighted 50/50 outcome.
type RandomDecider struct{}

func (RandomDecider) Decide() models.PaymentOutcome {
	if rand.Float64() < 0.5 {
		return models.PaymentSucceeded
	}
	return models.PaymentFailed
}

// helper: acquire per-order lock (process-local). Returns unlock func.
func (s *Service) lockForOrder(orderID string) func() {
	// fast path Load
	if v, ok := s.locks.Load(orderID); ok {
		m := v.(*sync.Mutex)
		m.Lock()
		return func() { m.Unlock() }
	}

	// Otherwise create and store a new mutex (race-safe via LoadOrStore)
	m := &sync.Mutex{}
	actual, _ := s.locks.LoadOrStore(orderID, m)
	mtx := actual.(*sync.Mutex)
	mtx.Lock()
	return func() { mtx.Unlock() }
}

// ProcessPayment executes one payment attempt against an order.
//
// An order that is already paid short-circuits: no new attempt is recorded
// and the decider is not invoked, so an order can never be charged twice.
// Otherwise exactly one outcome is drawn and appended to the payment log.
// Only a succeeded attempt transitions the order; a failed one leaves it
// pending, so the caller may retry. The returned DTO always carries the
// order status as persisted.
func (s *Service) ProcessPayment(businessID, orderID string) (PaymentDTO, error) {
	if businessID == "" || orderID == "" {
		return PaymentDTO{}, fmt.Errorf("%w: business_id and order_id are required", apperr.ErrValidation)
	}

	// serialize attempts per order; with the guarded status update in the
	// store this closes the double-charge race window
	unlock := s.lockForOrder(orderID)
	defer unlock()

	if _, err := s.store.GetBusiness(businessID); err != nil {
		return PaymentDTO{}, storeErr(err, "business", businessID)
	}
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return PaymentDTO{}, storeErr(err, "order", orderID)
	}
	if order.BusinessID != businessID {
		// tenant isolation: do not reveal that the order exists
		return PaymentDTO{}, notFound("order", orderID)
	}

	if order.Status == models.OrderStatusPaid {
		return PaymentDTO{
			OrderID:     orderID,
			OrderStatus: models.OrderStatusPaid,
			AlreadyPaid: true,
		}, nil
	}

	attempt := store.PaymentRow{
		PaymentID:  s.newID(),
		BusinessID: businessID,
		OrderID:    orderID,
		Amount:     order.Amount,
		Outcome:    s.decider.Decide(),
	}
	if err := s.store.CreatePayment(attempt); err != nil {
		return PaymentDTO{}, fmt.Errorf("%w: record payment attempt: %v", apperr.ErrPersistence, err)
	}

	dto := PaymentDTO{
		PaymentID:   attempt.PaymentID,
		OrderID:     orderID,
		Outcome:     attempt.Outcome,
		OrderStatus: order.Status,
	}
	if attempt.Outcome != models.PaymentSucceeded {
		return dto, nil
	}
	if err := s.transitionToPaid(orderID, order.Status); err != nil {
		// attempt is committed; surface the window instead of hiding it
		return dto, err
	}
	dto.OrderStatus = models.OrderStatusPaid
	return dto, nil
}
