package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"marketplace-orders/apperr"
	models "marketplace-orders/model"
	"marketplace-orders/store"
)

// IDGenerator produces opaque globally-unique identifiers. Injected so the
// core stays deterministic under test.
type IDGenerator func() string

type Service struct {
	store   store.Store
	decider PaymentDecider
	newID   IDGenerator

	// per-order mutexes so concurrent payment requests for the same order
	// are serialized in-process. Keys are order_id -> *sync.Mutex
	locks sync.Map
}

// NewService wires a Service. A nil decider falls back to the 50/50 draw
// and a nil generator falls back to UUIDs.
func NewService(s store.Store, decider PaymentDecider, newID IDGenerator) *Service {
	if decider == nil {
		decider = RandomDecider{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Service{store: s, decider: decider, newID: newID}
}

// notFound wraps apperr.ErrNotFound with the entity that was missing.
func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", apperr.ErrNotFound, what, id)
}

// storeErr classifies a store error: absence becomes not-found, anything
// else is a persistence failure.
func storeErr(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(what, id)
	}
	return fmt.Errorf("%w: %s %s: %v", apperr.ErrPersistence, what, id, err)
}

func (s *Service) RegisterBusiness(name string) (BusinessDTO, error) {
	if name == "" {
		return BusinessDTO{}, fmt.Errorf("%w: business_name is required", apperr.ErrValidation)
	}
	b := store.BusinessRow{BusinessID: s.newID(), Name: name}
	if err := s.store.CreateBusiness(b); err != nil {
		return BusinessDTO{}, fmt.Errorf("%w: create business: %v", apperr.ErrPersistence, err)
	}
	return BusinessDTO{BusinessID: b.BusinessID, Name: b.Name}, nil
}

// IntegrateMarketplace assigns a marketplace shop ID to a business. The
// assignment happens at most once; repeat calls return the existing ID.
func (s *Service) IntegrateMarketplace(businessID string) (string, error) {
	if businessID == "" {
		return "", fmt.Errorf("%w: business_id is required", apperr.ErrValidation)
	}
	b, err := s.store.GetBusiness(businessID)
	if err != nil {
		return "", storeErr(err, "business", businessID)
	}
	if b.ShopID.Valid {
		return b.ShopID.String, nil
	}
	shopID := s.newID()
	switch err := s.store.SetShopID(businessID, shopID); {
	case err == nil:
		return shopID, nil
	case errors.Is(err, store.ErrShopAssigned):
		// lost a race with another integration call; report the winner
		b, err := s.store.GetBusiness(businessID)
		if err != nil {
			return "", storeErr(err, "business", businessID)
		}
		return b.ShopID.String, nil
	case errors.Is(err, sql.ErrNoRows):
		return "", notFound("business", businessID)
	default:
		return "", fmt.Errorf("%w: integrate business %s: %v", apperr.ErrPersistence, businessID, err)
	}
}

func (s *Service) CreateProduct(businessID, name, description string, price float64) (ProductDTO, error) {
	if businessID == "" || name == "" || description == "" {
		return ProductDTO{}, fmt.Errorf("%w: business_id, name and description are required", apperr.ErrValidation)
	}
	if price < 0 {
		return ProductDTO{}, fmt.Errorf("%w: price must be >= 0", apperr.ErrValidation)
	}
	if _, err := s.store.GetBusiness(businessID); err != nil {
		return ProductDTO{}, storeErr(err, "business", businessID)
	}
	p := store.ProductRow{
		ProductID:   s.newID(),
		BusinessID:  businessID,
		Name:        name,
		Description: description,
		Price:       price,
	}
	if err := s.store.CreateProduct(p); err != nil {
		return ProductDTO{}, fmt.Errorf("%w: create product: %v", apperr.ErrPersistence, err)
	}
	return productDTO(p), nil
}

func (s *Service) GetProduct(productID string) (ProductDTO, error) {
	if productID == "" {
		return ProductDTO{}, fmt.Errorf("%w: product_id is required", apperr.ErrValidation)
	}
	p, err := s.store.GetProduct(productID)
	if err != nil {
		return ProductDTO{}, storeErr(err, "product", productID)
	}
	return productDTO(p), nil
}

func (s *Service) UpdateProduct(productID, name, description string, price float64) (ProductDTO, error) {
	if productID == "" || name == "" || description == "" {
		return ProductDTO{}, fmt.Errorf("%w: product_id, name and description are required", apperr.ErrValidation)
	}
	if price < 0 {
		return ProductDTO{}, fmt.Errorf("%w: price must be >= 0", apperr.ErrValidation)
	}
	p, err := s.store.UpdateProduct(productID, name, description, price)
	if err != nil {
		return ProductDTO{}, storeErr(err, "product", productID)
	}
	return productDTO(p), nil
}

func productDTO(p store.ProductRow) ProductDTO {
	return ProductDTO{
		ProductID:   p.ProductID,
		BusinessID:  p.BusinessID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

// DTOs
type BusinessDTO struct {
	BusinessID string `json:"business_id"`
	Name       string `json:"business_name"`
	ShopID     string `json:"shop_id,omitempty"`
}

type ProductDTO struct {
	ProductID   string  `json:"product_id"`
	BusinessID  string  `json:"business_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type OrderDTO struct {
	OrderID      string             `json:"order_id"`
	BusinessID   string             `json:"business_id"`
	ProductID    string             `json:"product_id"`
	Quantity     int                `json:"quantity"`
	CustomerName string             `json:"customer_name"`
	Amount       float64            `json:"amount"`
	Status       models.OrderStatus `json:"order_status"`
}

type PaymentDTO struct {
	PaymentID   string                `json:"payment_id,omitempty"`
	OrderID     string                `json:"order_id"`
	Outcome     models.PaymentOutcome `json:"outcome,omitempty"`
	OrderStatus models.OrderStatus    `json:"order_status"`
	AlreadyPaid bool                  `json:"-"`
}

type TrackingDTO struct {
	OrderID string             `json:"order_id"`
	Status  models.OrderStatus `json:"order_status"`
	Amount  float64            `json:"amount"`
}
