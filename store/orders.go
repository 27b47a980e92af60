package store

import (
	"errors"

	models "marketplace-orders/model"
)

// ErrStatusConflict is returned when a status transition matched no row
// because the order was not in the expected prior state.
var ErrStatusConflict = errors.New("order status conflict")

// ErrShopAssigned is returned when a business already has a shop ID.
var ErrShopAssigned = errors.New("shop id already assigned")

// MarkOrderPaid moves an order from one status to another with a guarded
// update: the write only applies if the order is still in the expected
// prior status. Concurrent writers cannot both apply the same transition.
func (s *PostgresStore) MarkOrderPaid(orderID string, from, to models.OrderStatus) error {
	res, err := s.DB.Exec(
		`UPDATE orders SET order_status=$1 WHERE order_id=$2 AND order_status=$3`,
		string(to), orderID, string(from),
	)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrStatusConflict
	}
	return nil
}

// SetShopID assigns a marketplace shop ID to a business. The ID is set at
// most once; a second assignment returns ErrShopAssigned. sql.ErrNoRows is
// returned when the business does not exist.
func (s *PostgresStore) SetShopID(businessID, shopID string) error {
	res, err := s.DB.Exec(
		`UPDATE businesses SET shop_id=$1 WHERE business_id=$2 AND shop_id IS NULL`,
		shopID, businessID,
	)
	if err != nil {
		return err
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		// Distinguish "absent" from "already assigned".
		if _, err := s.GetBusiness(businessID); err != nil {
			return err
		}
		return ErrShopAssigned
	}
	return nil
}
