package queries

import (
	"time"

	"github.com/google/uuid"
)

// OrderResponse is the flat read model returned by order queries.
type OrderResponse struct {
	ID               uuid.UUID  `json:"id"`
	SalesOrderNumber string     `json:"sales_order_number"`
	Status           string     `json:"status"`
	WarehouseID      uuid.UUID  `json:"warehouse_id"`
	DriverID         *uuid.UUID `json:"driver_id,omitempty"`

	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address,omitempty"`
	CustomerArea    string `json:"customer_area,omitempty"`

	PaymentMethod string  `json:"payment_method"`
	TotalAmount   float64 `json:"total_amount"`
	Notes         string  `json:"notes,omitempty"`
	SalesTaker    string  `json:"sales_taker,omitempty"`

	IsArchived  bool       `json:"is_archived"`
	CreatedAt   time.Time  `json:"created_at"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Proof *ProofResponse `json:"proof,omitempty"`

	Version int `json:"version"`
}

type ProofResponse struct {
	Kind       string    `json:"kind"`
	Ref        string    `json:"ref"`
	CapturedAt time.Time `json:"captured_at"`
}

type HistoryEntryResponse struct {
	Status    string    `json:"status"`
	ChangedBy uuid.UUID `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

type GetOrderResponse struct {
	Order   OrderResponse          `json:"order"`
	History []HistoryEntryResponse `json:"history"`
}

type GetOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// DriverResponse is the read model for the driver registry.
type DriverResponse struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	WarehouseID  uuid.UUID         `json:"warehouse_id"`
	Availability string            `json:"availability"`
	Location     *LocationResponse `json:"location,omitempty"`
}

type LocationResponse struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recorded_at"`
}

type GetDriversResponse struct {
	Drivers []DriverResponse `json:"drivers"`
}
