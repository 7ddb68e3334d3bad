package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id (campos opcionales).
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateBillRequest body para POST /api/bills.
// Los precios no se aceptan del cliente: se leen del producto dentro de la transacción.
type CreateBillRequest struct {
	CustomerID    string            `json:"customerId"`
	Items         []BillItemRequest `json:"items"`
	Discount      decimal.Decimal   `json:"discount"`
	PaymentStatus string            `json:"paymentStatus,omitempty"` // PENDING (default) | PAID
}

// BillItemRequest línea solicitada (producto y cantidad).
type BillItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateBillStatusRequest body para PUT /api/bills/:id.
type UpdateBillStatusRequest struct {
	Status string `json:"status"`
}

// BillResponse factura con cliente, usuario y líneas.
type BillResponse struct {
	ID         string             `json:"id"`
	BillNumber string             `json:"billNumber"`
	CustomerID string             `json:"customerId"`
	Customer   *CustomerResponse  `json:"customer,omitempty"`
	UserID     string             `json:"userId"`
	User       *UserSummary       `json:"user,omitempty"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Tax        decimal.Decimal    `json:"tax"`
	Discount   decimal.Decimal    `json:"discount"`
	Total      decimal.Decimal    `json:"total"`
	Status     string             `json:"status"`
	Items      []BillItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// BillItemResponse línea con snapshot y el producto actual.
type BillItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Product     *ProductSummary `json:"product,omitempty"`
}

// ProductSummary datos actuales del producto referenciado por una línea.
type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Category string `json:"category,omitempty"`
	Stock    int    `json:"stock"`
}

// UserSummary usuario que emitió la factura.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
