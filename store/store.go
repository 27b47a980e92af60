package store

import (
	"database/sql"

	_ "github.com/lib/pq"

	models "marketplace-orders/model"
)

// BusinessRow, ProductRow, OrderRow etc are simple structs representing DB rows
type BusinessRow struct {
	BusinessID string
	Name       string
	ShopID     sql.NullString
}

type ProductRow struct {
	ProductID   string
	BusinessID  string
	Name        string
	Description string
	Price       float64
}

type OrderRow struct {
	OrderID      string
	BusinessID   string
	ProductID    string
	Quantity     int
	CustomerName string
	Amount       float64
	Status       models.OrderStatus
}

type PaymentRow struct {
	PaymentID  string
	BusinessID string
	OrderID    string
	Amount     float64
	Outcome    models.PaymentOutcome
}

// PostgresStore is a Store backed by Postgres
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// CreateBusiness inserts a business record.
func (s *PostgresStore) CreateBusiness(b BusinessRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO businesses (business_id, name) VALUES ($1, $2)`,
		b.BusinessID, b.Name,
	)
	return err
}

func (s *PostgresStore) GetBusiness(businessID string) (BusinessRow, error) {
	var b BusinessRow
	err := s.DB.QueryRow(
		`SELECT business_id, name, shop_id FROM businesses WHERE business_id = $1`,
		businessID,
	).Scan(&b.BusinessID, &b.Name, &b.ShopID)
	return b, err
}

// CreateProduct inserts a product record.
func (s *PostgresStore) CreateProduct(p ProductRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO products (product_id, business_id, name, description, price) VALUES ($1, $2, $3, $4, $5)`,
		p.ProductID, p.BusinessID, p.Name, p.Description, p.Price,
	)
	return err
}

func (s *PostgresStore) GetProduct(productID string) (ProductRow, error) {
	var p ProductRow
	err := s.DB.QueryRow(
		`SELECT product_id, business_id, name, description, price FROM products WHERE product_id = $1`,
		productID,
	).Scan(&p.ProductID, &p.BusinessID, &p.Name, &p.Description, &p.Price)
	return p, err
}

// UpdateProduct replaces the mutable fields of a product and returns the
// updated row. Existing orders keep the amount they were placed with.
func (s *PostgresStore) UpdateProduct(productID, name, description string, price float64) (ProductRow, error) {
	var p ProductRow
	err := s.DB.QueryRow(
		`UPDATE products SET name=$1, description=$2, price=$3 WHERE product_id=$4
		 RETURNING product_id, business_id, name, description, price`,
		name, description, price, productID,
	).Scan(&p.ProductID, &p.BusinessID, &p.Name, &p.Description, &p.Price)
	return p, err
}

// CreateOrder inserts an order record with its frozen amount and initial status.
func (s *PostgresStore) CreateOrder(o OrderRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO orders (order_id, business_id, product_id, quantity, customer_name, amount, order_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.OrderID, o.BusinessID, o.ProductID, o.Quantity, o.CustomerName, o.Amount, string(o.Status),
	)
	return err
}

func (s *PostgresStore) GetOrder(orderID string) (OrderRow, error) {
	var o OrderRow
	var status string
	err := s.DB.QueryRow(
		`SELECT order_id, business_id, product_id, quantity, customer_name, amount, order_status
		 FROM orders WHERE order_id = $1`,
		orderID,
	).Scan(&o.OrderID, &o.BusinessID, &o.ProductID, &o.Quantity, &o.CustomerName, &o.Amount, &status)
	o.Status = models.OrderStatus(status)
	return o, err
}

// CreatePayment appends one payment attempt record. Attempts are never
// updated or deleted.
func (s *PostgresStore) CreatePayment(p PaymentRow) error {
	_, err := s.DB.Exec(
		`INSERT INTO payments (payment_id, business_id, order_id, amount, outcome) VALUES ($1, $2, $3, $4, $5)`,
		p.PaymentID, p.BusinessID, p.OrderID, p.Amount, string(p.Outcome),
	)
	return err
}

func (s *PostgresStore) ListPayments(orderID string) ([]PaymentRow, error) {
	rows, err := s.DB.Query(
		`SELECT payment_id, business_id, order_id, amount, outcome FROM payments WHERE order_id = $1 ORDER BY payment_id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PaymentRow{}
	for rows.Next() {
		var p PaymentRow
		var outcome string
		if err := rows.Scan(&p.PaymentID, &p.BusinessID, &p.OrderID, &p.Amount, &outcome); err != nil {
			return nil, err
		}
		p.Outcome = models.PaymentOutcome(outcome)
		out = append(out, p)
	}
	return out, rows.Err()
}
