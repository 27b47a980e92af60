package models

// OrderStatus is the lifecycle state of an order. It is a closed set:
// orders are created pending and move to paid at most once.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PLACED_PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
)

// Valid reports whether s is a member of the status set.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether the move from s to next is allowed.
// The only real transition is pending -> paid; paid is terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusPendingPayment && next == OrderStatusPaid
}

// PaymentOutcome is the recorded result of a single payment attempt.
type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "SUCCEEDED"
	PaymentFailed    PaymentOutcome = "FAILED"
)

// Valid reports whether o is a member of the outcome set.
func (o PaymentOutcome) Valid() bool {
	return o == PaymentSucceeded || o == PaymentFailed
}
