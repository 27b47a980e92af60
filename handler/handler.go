package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"marketplace-orders/apperr"
	models "marketplace-orders/model"
	"marketplace-orders/service"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc service.ServiceInterface
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface) *Handler {
	return &Handler{svc: s}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Businesses
	r.HandleFunc("/api/v1/marketplace/registration", h.RegisterBusiness).Methods("POST")
	r.HandleFunc("/api/v1/marketplace/integration", h.IntegrateMarketplace).Methods("POST")

	// Products
	r.HandleFunc("/api/v1/marketplace/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/api/v1/marketplace/products/{product_id}", h.GetProduct).Methods("GET")
	r.HandleFunc("/api/v1/marketplace/products/update/{product_id}", h.UpdateProduct).Methods("PUT")

	// Orders & payments
	r.HandleFunc("/api/v1/marketplace/orders/place", h.PlaceOrder).Methods("POST")
	r.HandleFunc("/api/v1/marketplace/payments", h.ProcessPayment).Methods("POST")
	r.HandleFunc("/api/v1/marketplace/orders/track/{order_id}", h.TrackOrder).Methods("GET")
}

// --- request / response shapes ---
type registerBusinessReq struct {
	BusinessName string `json:"business_name"`
}

type integrateReq struct {
	BusinessID string `json:"business_id"`
}

type createProductReq struct {
	BusinessID string `json:"business_id"`
	Product    struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	} `json:"product"`
}

type updateProductReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type placeOrderReq struct {
	BusinessID   string `json:"business_id"`
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	CustomerName string `json:"customer_name"`
}

type processPaymentReq struct {
	BusinessID string `json:"business_id"`
	OrderID    string `json:"order_id"`
}

// envelope is the uniform response body: status is "success", "failed" or
// "error".
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error, msg string) {
	writeJSON(w, apperr.HTTPStatus(err), envelope{
		Status:  "error",
		Message: msg,
		Kind:    apperr.Kind(err),
	})
}

func writeSuccess(w http.ResponseWriter, code int, msg string, data interface{}) {
	writeJSON(w, code, envelope{Status: "success", Message: msg, Data: data})
}

// --- Handler ---

// RegisterBusiness handles POST /api/v1/marketplace/registration
func (h *Handler) RegisterBusiness(w http.ResponseWriter, r *http.Request) {
	var req registerBusinessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.ErrValidation, "invalid json")
		return
	}
	b, err := h.svc.RegisterBusiness(req.BusinessName)
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, "Business registered successfully", b)
}

// IntegrateMarketplace handles POST /api/v1/marketplace/integration
func (h *Handler) IntegrateMarketplace(w http.ResponseWriter, r *http.Request) {
	var req integrateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.ErrValidation, "invalid json")
		return
	}
	shopID, err := h.svc.IntegrateMarketplace(req.BusinessID)
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, "Marketplace integration successful", map[string]string{"shop_id": shopID})
}

// CreateProduct handles POST /api/v1/marketplace/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.ErrValidation, "invalid json")
		return
	}
	p, err := h.svc.CreateProduct(req.BusinessID, req.Product.Name, req.Product.Description, req.Product.Price)
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, "Product listed successfully", p)
}

// GetProduct handles GET /api/v1/marketplace/products/{product_id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(mux.Vars(r)["product_id"])
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, "Product found", p)
}

// UpdateProduct handles PUT /api/v1/marketplace/products/update/{product_id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.ErrValidation, "invalid json")
		return
	}
	p, err := h.svc.UpdateProduct(mux.Vars(r)["product_id"], req.Name, req.Description, req.Price)
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, "Product updated successfully", p)
}

// PlaceOrder handles POST /api/v1/marketplace/orders/place
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.ErrValidation, "invalid json")
		return
	}
	ord, err := h.svc.PlaceOrder(req.BusinessID, req.ProductID, req.Quantity, req.CustomerName)
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, "Order placed successfully", ord)
}

// ProcessPayment handles POST /api/v1/marketplace/payments
//
// A failed attempt is a normal outcome, not a transport error: it returns
// 200 with status "failed" and the order's stored (still pending) status.
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.ErrValidation, "invalid json")
		return
	}
	p, err := h.svc.ProcessPayment(req.BusinessID, req.OrderID)
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	switch {
	case p.AlreadyPaid:
		writeSuccess(w, http.StatusOK, "Payment already completed for this order", p)
	case p.Outcome == models.PaymentFailed:
		writeJSON(w, http.StatusOK, envelope{Status: "failed", Message: "Payment processing failed", Data: p})
	default:
		writeSuccess(w, http.StatusOK, "Payment processed successfully", p)
	}
}

// TrackOrder handles GET /api/v1/marketplace/orders/track/{order_id}
func (h *Handler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.TrackOrder(mux.Vars(r)["order_id"])
	if err != nil {
		writeErr(w, err, err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, "Order found", t)
}
